package service

import (
	"context"
	"testing"

	trainerserrors "coursedesk/internal/trainers/errors"
	"coursedesk/internal/trainers/validator"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testTrainerID = "507f1f77bcf86cd799439031"

type mockTrainerRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Trainer, error)
	createFunc   func(ctx context.Context, trainer *model.Trainer) error
	deleted      []string
}

func (m *mockTrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, trainer)
	}
	trainer.ID = testTrainerID
	return nil
}

func (m *mockTrainerRepository) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Trainer{ID: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"}, nil
}

func (m *mockTrainerRepository) FindByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	return nil, nil
}

func (m *mockTrainerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, error) {
	return nil, nil
}

func (m *mockTrainerRepository) Update(ctx context.Context, id string, trainer *model.Trainer) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockTrainerRepository) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTrainerRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockTrainerRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockCourseRepository struct {
	countByTrainerAndStatusInFunc func(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error)
	capturedStatuses              []model.CourseStatus
}

func (m *mockCourseRepository) Create(ctx context.Context, course *model.Course) error { return nil }

func (m *mockCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return nil, nil
}

func (m *mockCourseRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error) {
	return nil, nil
}

func (m *mockCourseRepository) FindByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, error) {
	return nil, nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id string, course *model.Course) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockCourseRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockCourseRepository) CountByStatus(ctx context.Context, status model.CourseStatus) (int64, error) {
	return 0, nil
}

func (m *mockCourseRepository) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	return 0, nil
}

func (m *mockCourseRepository) CountByTrainerAndStatusIn(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error) {
	m.capturedStatuses = statuses
	if m.countByTrainerAndStatusInFunc != nil {
		return m.countByTrainerAndStatusInFunc(ctx, trainerID, statuses)
	}
	return 0, nil
}

func (m *mockCourseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newTrainerServiceForTest(repo *mockTrainerRepository, courseRepo *mockCourseRepository) TrainerService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewTrainerService(repo, courseRepo, validator.NewTrainerValidator(log), cfg)
}

func TestCreateTrainer_DuplicateEmail(t *testing.T) {
	repo := &mockTrainerRepository{
		createFunc: func(ctx context.Context, trainer *model.Trainer) error {
			return trainerserrors.ErrDuplicateEmail
		},
	}
	svc := newTrainerServiceForTest(repo, &mockCourseRepository{})

	trainer := &model.Trainer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"}
	err := svc.Create(context.Background(), trainer)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestDeleteTrainer_BlockedByAssignedCourses(t *testing.T) {
	repo := &mockTrainerRepository{}
	courseRepo := &mockCourseRepository{
		countByTrainerAndStatusInFunc: func(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error) {
			return 2, nil
		},
	}
	svc := newTrainerServiceForTest(repo, courseRepo)

	err := svc.Delete(context.Background(), testTrainerID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodePreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", err)
	}
	if appErr.Message != "cannot delete a trainer assigned to planned or active courses" {
		t.Errorf("message = %q", appErr.Message)
	}
	if len(repo.deleted) != 0 {
		t.Error("trainer must not be deleted while courses are assigned")
	}
}

func TestDeleteTrainer_OnlyPlannedAndActiveBlock(t *testing.T) {
	repo := &mockTrainerRepository{}
	courseRepo := &mockCourseRepository{}
	svc := newTrainerServiceForTest(repo, courseRepo)

	if err := svc.Delete(context.Background(), testTrainerID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.CourseStatus{model.CoursePlanned, model.CourseActive}
	if len(courseRepo.capturedStatuses) != len(want) {
		t.Fatalf("guard statuses = %v, want %v", courseRepo.capturedStatuses, want)
	}
	for i, status := range want {
		if courseRepo.capturedStatuses[i] != status {
			t.Errorf("guard status[%d] = %s, want %s", i, courseRepo.capturedStatuses[i], status)
		}
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != testTrainerID {
		t.Errorf("deleted = %v, want [%s]", repo.deleted, testTrainerID)
	}
}

func TestDeleteTrainer_NotFound(t *testing.T) {
	repo := &mockTrainerRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return nil, trainerserrors.ErrNotFound
		},
	}
	svc := newTrainerServiceForTest(repo, &mockCourseRepository{})

	err := svc.Delete(context.Background(), testTrainerID)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCanDeleteTrainer(t *testing.T) {
	tests := []struct {
		name     string
		assigned int64
		want     bool
	}{
		{"no blocking courses", 0, true},
		{"one planned course", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courseRepo := &mockCourseRepository{
				countByTrainerAndStatusInFunc: func(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error) {
					return tt.assigned, nil
				},
			}
			svc := newTrainerServiceForTest(&mockTrainerRepository{}, courseRepo)

			got, err := svc.CanDelete(context.Background(), testTrainerID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanDelete = %v, want %v", got, tt.want)
			}
		})
	}
}
