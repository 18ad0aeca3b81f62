package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// bookingTransitions is the full set of legal booking status transitions.
// CANCELLED and COMPLETED are both terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows moving from s
// to next. A same-status change is always allowed (no-op).
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0 && s.IsValid()
}

// SeatOccupyingStatuses are the booking statuses that hold a seat when a new
// booking is created. Confirmation-time checks count only CONFIRMED; the
// asymmetry allows pending reservations to queue past nominal capacity while
// hard-capping confirmations.
var SeatOccupyingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// NonCancelledStatuses are the booking statuses that block a participant from
// booking the same course again. A COMPLETED booking still blocks; only
// cancellation frees the pairing.
var NonCancelledStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted}

// Booking is the join entity between a participant and a course. It owns the
// foreign keys; neither side materializes a booking collection.
type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ParticipantID string        `json:"participant_id" bson:"participant_id" validate:"required,mongodb"`
	CourseID      string        `json:"course_id" bson:"course_id" validate:"required,mongodb"`
	BookingDate   time.Time     `json:"booking_date" bson:"booking_date" validate:"required"`
	Status        BookingStatus `json:"status" bson:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	CreatedAt     time.Time     `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// SeatLock is a short-lived advisory lock serializing capacity checks for a
// single course. The _id is derived from the course ID, so a concurrent
// booking attempt on the same course fails the unique insert. A TTL index on
// expires_at reaps locks from crashed requests.
type SeatLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}
