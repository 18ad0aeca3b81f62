package model

import "time"

type CourseStatus string

const (
	CoursePlanned   CourseStatus = "PLANNED"
	CourseActive    CourseStatus = "ACTIVE"
	CourseCompleted CourseStatus = "COMPLETED"
	CourseCancelled CourseStatus = "CANCELLED"
)

// courseTransitions is the full set of legal course status transitions.
// COMPLETED is terminal; CANCELLED courses can be re-planned.
var courseTransitions = map[CourseStatus][]CourseStatus{
	CoursePlanned:   {CourseActive, CourseCancelled},
	CourseActive:    {CourseCompleted, CourseCancelled},
	CourseCompleted: {},
	CourseCancelled: {CoursePlanned},
}

func (s CourseStatus) IsValid() bool {
	_, ok := courseTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows moving from s
// to next. A same-status change is always allowed (no-op).
func (s CourseStatus) CanTransitionTo(next CourseStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range courseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CourseStatus) IsTerminal() bool {
	return len(courseTransitions[s]) == 0 && s.IsValid()
}

type Course struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string       `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	StartDate   time.Time    `json:"start_date" bson:"start_date" validate:"required"`
	EndDate     time.Time    `json:"end_date" bson:"end_date" validate:"required"`
	MaxSeats    int          `json:"max_seats" bson:"max_seats" validate:"required,min=1"`
	Status      CourseStatus `json:"status,omitempty" bson:"status" validate:"omitempty,oneof=PLANNED ACTIVE COMPLETED CANCELLED"`
	TrainerID   string       `json:"trainer_id,omitempty" bson:"trainer_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt   time.Time    `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// HasTrainer reports whether a trainer is currently assigned.
func (c *Course) HasTrainer() bool {
	return c.TrainerID != ""
}

// IsBookable reports whether new bookings may target this course.
func (c *Course) IsBookable() bool {
	return c.Status == CoursePlanned || c.Status == CourseActive
}

type CourseUpdate struct {
	Name        string       `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=1000"`
	StartDate   *time.Time   `json:"start_date,omitempty" validate:"omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty" validate:"omitempty"`
	MaxSeats    *int         `json:"max_seats,omitempty" validate:"omitempty,min=1"`
	Status      CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=PLANNED ACTIVE COMPLETED CANCELLED"`
}
