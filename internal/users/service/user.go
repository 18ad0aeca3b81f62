package service

import (
	"context"
	"errors"
	"sync"

	userserrors "coursedesk/internal/users/errors"
	"coursedesk/internal/users/repository"
	"coursedesk/internal/users/validator"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/model"
	"coursedesk/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, updates *model.UserUpdate) error
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	s.sanitize(user)
	if err := s.validate(user); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		taken, err := s.repo.ExistsByUsername(sessCtx, user.Username)
		if err != nil {
			return apperrors.Internal("Failed to check username", err)
		}
		if taken {
			return apperrors.Conflict("a user with this username already exists")
		}

		taken, err = s.repo.ExistsByEmail(sessCtx, user.Email)
		if err != nil {
			return apperrors.Internal("Failed to check email", err)
		}
		if taken {
			return apperrors.Conflict("a user with this email already exists")
		}

		if err := s.repo.Create(sessCtx, user); err != nil {
			if errors.Is(err, userserrors.ErrDuplicateUsername) {
				return apperrors.Conflict("a user with this username already exists")
			}
			return apperrors.Internal("Failed to create user", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create user", "error", err)
		return err
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "username", user.Username)
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User not found for email " + email)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) Update(ctx context.Context, id string, updates *model.UserUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("User update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUserUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if merged.Username != existing.Username {
			taken, err := s.repo.ExistsByUsername(sessCtx, merged.Username)
			if err != nil {
				return apperrors.Internal("Failed to check username", err)
			}
			if taken {
				return apperrors.Conflict("a user with this username already exists")
			}
		}

		if merged.Email != existing.Email {
			taken, err := s.repo.ExistsByEmail(sessCtx, merged.Email)
			if err != nil {
				return apperrors.Internal("Failed to check email", err)
			}
			if taken {
				return apperrors.Conflict("a user with this email already exists")
			}
		}

		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, userserrors.ErrDuplicateUsername) {
				return apperrors.Conflict("a user with this username already exists")
			}
			return apperrors.Internal("Failed to update user", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("User updated successfully", "id", id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, userserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("User", id)
			}
			if errors.Is(err, userserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid user ID format")
			}
			return apperrors.Internal("Failed to delete user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *userService) sanitize(u *model.User) {
	u.Username = sanitizer.TrimAndNormalize(u.Username)
	u.Email = sanitizer.NormalizeEmail(u.Email)
}

func (s *userService) mergeUserUpdates(existing *model.User, updates *model.UserUpdate) *model.User {
	merged := *existing

	if updates.Username != "" {
		merged.Username = updates.Username
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Password != "" {
		merged.Password = updates.Password
	}

	return &merged
}

func (s *userService) validate(user *model.User) error {
	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return apperrors.Validation("Invalid user input", map[string]any{"error": err.Error()})
	}
	return nil
}
