package service

import (
	"context"
	"errors"
	"sync"

	courserepo "coursedesk/internal/courses/repository"
	trainerserrors "coursedesk/internal/trainers/errors"
	"coursedesk/internal/trainers/repository"
	"coursedesk/internal/trainers/validator"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/model"
	"coursedesk/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// blockingStatuses are the course statuses that keep a trainer deletable
// only after reassignment. Completed and cancelled courses do not pin
// their trainer.
var blockingStatuses = []model.CourseStatus{model.CoursePlanned, model.CourseActive}

type TrainerService interface {
	Create(ctx context.Context, trainer *model.Trainer) error
	GetByID(ctx context.Context, id string) (*model.Trainer, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, int64, error)
	Update(ctx context.Context, id string, updates *model.TrainerUpdate) error
	Delete(ctx context.Context, id string) error
	CanDelete(ctx context.Context, id string) (bool, error)
}

type trainerService struct {
	repo       repository.TrainerRepository
	courseRepo courserepo.CourseRepository
	validator  *validator.TrainerValidator
	cfg        *config.Config
}

func NewTrainerService(
	repo repository.TrainerRepository,
	courseRepo courserepo.CourseRepository,
	validator *validator.TrainerValidator,
	cfg *config.Config,
) TrainerService {
	return &trainerService{
		repo:       repo,
		courseRepo: courseRepo,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *trainerService) Create(ctx context.Context, trainer *model.Trainer) error {
	s.sanitize(trainer)
	if err := s.validate(trainer); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, trainer); err != nil {
			if errors.Is(err, trainerserrors.ErrDuplicateEmail) {
				return apperrors.Conflict("a trainer with this email already exists")
			}
			return apperrors.Internal("Failed to create trainer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create trainer", "error", err)
		return err
	}

	s.cfg.Log.Info("Trainer created successfully", "id", trainer.ID, "email", trainer.Email)
	return nil
}

func (s *trainerService) GetByID(ctx context.Context, id string) (*model.Trainer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Trainer ID cannot be empty")
	}

	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, trainerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Trainer", id)
		}
		if errors.Is(err, trainerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid trainer ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve trainer", err)
	}

	return trainer, nil
}

func (s *trainerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, int64, error) {
	var count int64
	var trainers []*model.Trainer
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count trainers", "error", errCount)
			errCount = apperrors.Internal("Failed to count trainers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		trainers, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list trainers", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve trainers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return trainers, count, nil
}

func (s *trainerService) Update(ctx context.Context, id string, updates *model.TrainerUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Trainer ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Trainer update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeTrainerUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, trainerserrors.ErrDuplicateEmail) {
				return apperrors.Conflict("a trainer with this email already exists")
			}
			return apperrors.Internal("Failed to update trainer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update trainer", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Trainer updated successfully", "id", id)
	return nil
}

func (s *trainerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Trainer ID cannot be empty")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		assigned, err := s.courseRepo.CountByTrainerAndStatusIn(sessCtx, id, blockingStatuses)
		if err != nil {
			return apperrors.Internal("Failed to count trainer courses", err)
		}
		if assigned > 0 {
			return apperrors.PreconditionFailed("cannot delete a trainer assigned to planned or active courses")
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, trainerserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Trainer", id)
			}
			return apperrors.Internal("Failed to delete trainer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete trainer", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Trainer deleted successfully", "id", id)
	return nil
}

// CanDelete probes the deletion guard without deleting anything, so a UI
// can disable the delete action up front.
func (s *trainerService) CanDelete(ctx context.Context, id string) (bool, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return false, err
	}

	assigned, err := s.courseRepo.CountByTrainerAndStatusIn(ctx, id, blockingStatuses)
	if err != nil {
		return false, apperrors.Internal("Failed to count trainer courses", err)
	}

	return assigned == 0, nil
}

// --- Helpers ---

func (s *trainerService) sanitize(t *model.Trainer) {
	t.FirstName = sanitizer.NormalizeName(t.FirstName)
	t.LastName = sanitizer.NormalizeName(t.LastName)
	t.Email = sanitizer.NormalizeEmail(t.Email)
	t.Qualification = sanitizer.TrimAndNormalize(t.Qualification)
}

func (s *trainerService) mergeTrainerUpdates(existing *model.Trainer, updates *model.TrainerUpdate) *model.Trainer {
	merged := *existing

	if updates.FirstName != "" {
		merged.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		merged.LastName = updates.LastName
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Qualification != nil {
		merged.Qualification = *updates.Qualification
	}

	return &merged
}

func (s *trainerService) validate(trainer *model.Trainer) error {
	if err := s.validator.Validate(trainer); err != nil {
		s.cfg.Log.Warn("Trainer validation failed", "error", err)
		return apperrors.Validation("Invalid trainer input", map[string]any{"error": err.Error()})
	}
	return nil
}
