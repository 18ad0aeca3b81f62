package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	courseserrors "coursedesk/internal/courses/errors"
	"coursedesk/internal/courses/repository"
	"coursedesk/internal/courses/validator"
	trainerserrors "coursedesk/internal/trainers/errors"
	trainerrepo "coursedesk/internal/trainers/repository"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/events"
	"coursedesk/pkg/model"
	"coursedesk/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type CourseService interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error)
	GetByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, int64, error)
	Update(ctx context.Context, id string, updates *model.CourseUpdate) error
	AssignTrainer(ctx context.Context, courseID string, trainerID string) (*model.Course, error)
	RemoveTrainer(ctx context.Context, courseID string) (*model.Course, error)
	ChangeStatus(ctx context.Context, id string, newStatus model.CourseStatus) (*model.Course, error)
}

type courseService struct {
	repo        repository.CourseRepository
	trainerRepo trainerrepo.TrainerRepository
	validator   *validator.CourseValidator
	publisher   events.Publisher
	cfg         *config.Config
}

func NewCourseService(
	repo repository.CourseRepository,
	trainerRepo trainerrepo.TrainerRepository,
	validator *validator.CourseValidator,
	publisher events.Publisher,
	cfg *config.Config,
) CourseService {
	return &courseService{
		repo:        repo,
		trainerRepo: trainerRepo,
		validator:   validator,
		publisher:   publisher,
		cfg:         cfg,
	}
}

func (s *courseService) Create(ctx context.Context, course *model.Course) error {
	s.applyDefaults(course)
	s.sanitize(course)

	if err := s.checkScheduleRules(course, true); err != nil {
		return err
	}
	if err := s.validate(course); err != nil {
		return err
	}

	if course.TrainerID != "" {
		if err := s.verifyTrainerExists(ctx, course.TrainerID); err != nil {
			return err
		}
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, course); err != nil {
			return apperrors.Internal("Failed to create course", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create course", "error", err)
		return err
	}

	s.cfg.Log.Info("Course created successfully",
		"id", course.ID,
		"name", course.Name,
		"status", course.Status,
		"max_seats", course.MaxSeats,
	)
	return nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Course ID cannot be empty")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Course", id)
		}
		if errors.Is(err, courseserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid course ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve course", err)
	}

	return course, nil
}

func (s *courseService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error) {
	var count int64
	var courses []*model.Course
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count courses", "error", errCount)
			errCount = apperrors.Internal("Failed to count courses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		courses, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list courses", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve courses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return courses, count, nil
}

func (s *courseService) GetByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, int64, error) {
	if !status.IsValid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Invalid course status: %s", status))
	}

	var count int64
	var courses []*model.Course
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStatus(ctx, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count courses by status", "status", status, "error", errCount)
			errCount = apperrors.Internal("Failed to count courses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		courses, errFind = s.repo.FindByStatus(ctx, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list courses by status", "status", status, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve courses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return courses, count, nil
}

func (s *courseService) Update(ctx context.Context, id string, updates *model.CourseUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Course ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Course update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	previousStatus := existing.Status
	merged := s.mergeCourseUpdates(existing, updates)
	s.sanitize(merged)

	if merged.Status != previousStatus {
		if err := s.guardTransition(existing, merged.Status); err != nil {
			return err
		}
	}

	if err := s.checkScheduleRules(merged, false); err != nil {
		return err
	}
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update course", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update course", "id", id, "error", err)
		return err
	}

	if merged.Status != previousStatus {
		s.publishStatusChanged(ctx, merged, previousStatus)
	}

	s.cfg.Log.Info("Course updated successfully", "id", id)
	return nil
}

func (s *courseService) AssignTrainer(ctx context.Context, courseID string, trainerID string) (*model.Course, error) {
	if courseID == "" || trainerID == "" {
		return nil, apperrors.InvalidInput("Course ID and trainer ID are required")
	}

	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.Status == model.CourseCompleted || course.Status == model.CourseCancelled {
		return nil, apperrors.PreconditionFailed(
			fmt.Sprintf("cannot assign a trainer to a %s course", course.Status))
	}

	if err := s.verifyTrainerExists(ctx, trainerID); err != nil {
		return nil, err
	}

	course.TrainerID = trainerID
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, courseID, course); err != nil {
			return apperrors.Internal("Failed to assign trainer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign trainer", "course_id", courseID, "trainer_id", trainerID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Trainer assigned to course", "course_id", courseID, "trainer_id", trainerID)
	return course, nil
}

func (s *courseService) RemoveTrainer(ctx context.Context, courseID string) (*model.Course, error) {
	if courseID == "" {
		return nil, apperrors.InvalidInput("Course ID cannot be empty")
	}

	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.HasTrainer() {
		return nil, apperrors.PreconditionFailed("course has no trainer assigned")
	}

	if course.Status == model.CourseActive || course.Status == model.CourseCompleted {
		return nil, apperrors.PreconditionFailed(
			fmt.Sprintf("cannot remove the trainer from a %s course", course.Status))
	}

	course.TrainerID = ""
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, courseID, course); err != nil {
			return apperrors.Internal("Failed to remove trainer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to remove trainer", "course_id", courseID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Trainer removed from course", "course_id", courseID)
	return course, nil
}

func (s *courseService) ChangeStatus(ctx context.Context, id string, newStatus model.CourseStatus) (*model.Course, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Course ID cannot be empty")
	}
	if !newStatus.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid course status: %s", newStatus))
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Requesting the current status is a no-op, not an error.
	if course.Status == newStatus {
		return course, nil
	}

	if err := s.guardTransition(course, newStatus); err != nil {
		return nil, err
	}

	previousStatus := course.Status
	course.Status = newStatus
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, id, course); err != nil {
			return apperrors.Internal("Failed to change course status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to change course status", "id", id, "error", err)
		return nil, err
	}

	s.publishStatusChanged(ctx, course, previousStatus)
	s.cfg.Log.Info("Course status changed", "id", id, "from", previousStatus, "to", newStatus)
	return course, nil
}

// --- Helpers ---

func (s *courseService) guardTransition(course *model.Course, newStatus model.CourseStatus) error {
	if course.Status == model.CourseCompleted {
		return apperrors.InvalidTransitionMessage(
			"cannot change status of a completed course", "course", string(course.Status), string(newStatus))
	}
	if !course.Status.CanTransitionTo(newStatus) {
		return apperrors.InvalidTransition("course", string(course.Status), string(newStatus))
	}
	if newStatus == model.CourseActive && !course.HasTrainer() {
		return apperrors.PreconditionFailed("cannot activate a course without an assigned trainer")
	}
	return nil
}

func (s *courseService) verifyTrainerExists(ctx context.Context, trainerID string) error {
	_, err := s.trainerRepo.FindByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, trainerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Trainer", trainerID)
		}
		if errors.Is(err, trainerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid trainer ID format")
		}
		return apperrors.Internal("Failed to verify trainer", err)
	}
	return nil
}

// checkScheduleRules enforces the scheduling invariants that are not
// expressible as struct tags. The past-start check only applies to new
// courses so that long-running courses stay updatable.
func (s *courseService) checkScheduleRules(course *model.Course, isNew bool) error {
	if course.MaxSeats <= 0 {
		return apperrors.PreconditionFailed("maximum seats must be a positive number")
	}
	if course.EndDate.Before(course.StartDate) {
		return apperrors.PreconditionFailed("end date must not be before start date")
	}
	if isNew && course.StartDate.Before(time.Now().Truncate(24*time.Hour)) {
		return apperrors.PreconditionFailed("start date cannot be in the past")
	}
	return nil
}

func (s *courseService) sanitize(c *model.Course) {
	c.Name = sanitizer.TrimAndNormalize(c.Name)
	c.Description = sanitizer.TrimAndNormalize(c.Description)
}

func (s *courseService) applyDefaults(c *model.Course) {
	if c.Status == "" {
		c.Status = model.CoursePlanned
	}
}

func (s *courseService) mergeCourseUpdates(existing *model.Course, updates *model.CourseUpdate) *model.Course {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.MaxSeats != nil {
		merged.MaxSeats = *updates.MaxSeats
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *courseService) validate(course *model.Course) error {
	if err := s.validator.Validate(course); err != nil {
		s.cfg.Log.Warn("Course validation failed", "error", err)
		return apperrors.Validation("Invalid course input", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *courseService) publishStatusChanged(ctx context.Context, course *model.Course, previous model.CourseStatus) {
	s.publisher.Publish(ctx, events.New(events.TypeCourseStatusChanged, "course", course.ID, map[string]any{
		"previous_status": previous,
		"new_status":      course.Status,
	}))
}
