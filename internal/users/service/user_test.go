package service

import (
	"context"
	"testing"

	"coursedesk/internal/users/validator"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testUserID = "507f1f77bcf86cd799439041"

type mockUserRepository struct {
	findByIDFunc         func(ctx context.Context, id string) (*model.User, error)
	existsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	existsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	capturedUser         *model.User
	updateCalled         bool
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = testUserID
	m.capturedUser = user
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Username: "student42", Email: "student@example.org", Password: "secret1"}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFunc != nil {
		return m.existsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc != nil {
		return m.existsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) (*mongo.UpdateResult, error) {
	m.updateCalled = true
	m.capturedUser = user
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newUserServiceForTest(repo *mockUserRepository) UserService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewUserService(repo, validator.NewUserValidator(log), cfg)
}

func validUser() *model.User {
	return &model.User{
		Username: "student42",
		Email:    "student@example.org",
		Password: "secret1",
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo := &mockUserRepository{}
	svc := newUserServiceForTest(repo)

	user := validUser()
	if err := svc.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("id = %q, want %q", user.ID, testUserID)
	}
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	repo := &mockUserRepository{}
	svc := newUserServiceForTest(repo)

	user := validUser()
	user.Email = "  Student@Example.ORG "
	if err := svc.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "student@example.org" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	repo := &mockUserRepository{
		existsByUsernameFunc: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := newUserServiceForTest(repo)

	err := svc.Create(context.Background(), validUser())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr.Message != "a user with this username already exists" {
		t.Errorf("message = %q", appErr.Message)
	}
	if repo.capturedUser != nil {
		t.Error("user must not be created when the username is taken")
	}
}

func TestCreateUser_EmailTaken(t *testing.T) {
	repo := &mockUserRepository{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := newUserServiceForTest(repo)

	err := svc.Create(context.Background(), validUser())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr.Message != "a user with this email already exists" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestCreateUser_RejectsQuirkyEmail(t *testing.T) {
	repo := &mockUserRepository{}
	svc := newUserServiceForTest(repo)

	user := validUser()
	user.Email = "student@host.test"

	err := svc.Create(context.Background(), user)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for .test domain, got %v", err)
	}
}

func TestUpdateUser_UnchangedFieldsSkipExistenceChecks(t *testing.T) {
	usernameChecked := false
	emailChecked := false
	repo := &mockUserRepository{
		existsByUsernameFunc: func(ctx context.Context, username string) (bool, error) {
			usernameChecked = true
			return false, nil
		},
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			emailChecked = true
			return false, nil
		},
	}
	svc := newUserServiceForTest(repo)

	updates := &model.UserUpdate{Password: "newsecret"}
	if err := svc.Update(context.Background(), testUserID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usernameChecked || emailChecked {
		t.Error("uniqueness checks must only run for changed fields")
	}
	if !repo.updateCalled {
		t.Error("update was not written")
	}
}

func TestUpdateUser_ChangedUsernameConflicts(t *testing.T) {
	repo := &mockUserRepository{
		existsByUsernameFunc: func(ctx context.Context, username string) (bool, error) {
			return username == "newname", nil
		},
	}
	svc := newUserServiceForTest(repo)

	err := svc.Update(context.Background(), testUserID, &model.UserUpdate{Username: "newname"})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.updateCalled {
		t.Error("conflicting update must not be written")
	}
}
