package service

import (
	"context"
	"errors"
	"sync"

	participantserrors "coursedesk/internal/participants/errors"
	"coursedesk/internal/participants/repository"
	"coursedesk/internal/participants/validator"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/model"
	"coursedesk/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ParticipantService interface {
	Create(ctx context.Context, participant *model.Participant) error
	GetByID(ctx context.Context, id string) (*model.Participant, error)
	GetByEmail(ctx context.Context, email string) (*model.Participant, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Participant, int64, error)
	Update(ctx context.Context, id string, updates *model.ParticipantUpdate) error
}

type participantService struct {
	repo      repository.ParticipantRepository
	validator *validator.ParticipantValidator
	cfg       *config.Config
}

func NewParticipantService(
	repo repository.ParticipantRepository,
	validator *validator.ParticipantValidator,
	cfg *config.Config,
) ParticipantService {
	return &participantService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *participantService) Create(ctx context.Context, participant *model.Participant) error {
	s.applyDefaults(participant)
	s.sanitize(participant)
	if err := s.validate(participant); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, participant); err != nil {
			if errors.Is(err, participantserrors.ErrDuplicateEmail) {
				return apperrors.Conflict("a participant with this email already exists")
			}
			return apperrors.Internal("Failed to create participant", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create participant", "error", err)
		return err
	}

	s.cfg.Log.Info("Participant created successfully",
		"id", participant.ID,
		"email", participant.Email,
		"status", participant.Status,
	)
	return nil
}

func (s *participantService) GetByID(ctx context.Context, id string) (*model.Participant, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Participant ID cannot be empty")
	}

	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, participantserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Participant", id)
		}
		if errors.Is(err, participantserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid participant ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve participant", err)
	}

	return participant, nil
}

func (s *participantService) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	participant, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, participantserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Participant not found for email " + email)
		}
		return nil, apperrors.Internal("Failed to retrieve participant", err)
	}

	return participant, nil
}

func (s *participantService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Participant, int64, error) {
	var count int64
	var participants []*model.Participant
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count participants", "error", errCount)
			errCount = apperrors.Internal("Failed to count participants", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		participants, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list participants", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve participants", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return participants, count, nil
}

func (s *participantService) Update(ctx context.Context, id string, updates *model.ParticipantUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Participant ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Participant update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeParticipantUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, participantserrors.ErrDuplicateEmail) {
				return apperrors.Conflict("a participant with this email already exists")
			}
			return apperrors.Internal("Failed to update participant", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update participant", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Participant updated successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *participantService) sanitize(p *model.Participant) {
	p.FirstName = sanitizer.NormalizeName(p.FirstName)
	p.LastName = sanitizer.NormalizeName(p.LastName)
	p.Email = sanitizer.NormalizeEmail(p.Email)
}

func (s *participantService) applyDefaults(p *model.Participant) {
	if p.Status == "" {
		p.Status = model.ParticipantActive
	}
}

func (s *participantService) mergeParticipantUpdates(existing *model.Participant, updates *model.ParticipantUpdate) *model.Participant {
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
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *participantService) validate(participant *model.Participant) error {
	if err := s.validator.Validate(participant); err != nil {
		s.cfg.Log.Warn("Participant validation failed", "error", err)
		return apperrors.Validation("Invalid participant input", map[string]any{"error": err.Error()})
	}
	return nil
}
