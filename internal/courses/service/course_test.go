package service

import (
	"context"
	"testing"
	"time"

	"coursedesk/internal/courses/validator"
	trainerserrors "coursedesk/internal/trainers/errors"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/events"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testCourseID  = "507f1f77bcf86cd799439021"
	testTrainerID = "507f1f77bcf86cd799439022"
)

type mockCourseRepository struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Course, error)
	capturedCourse *model.Course
	updateCalled   bool
}

func (m *mockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	course.ID = testCourseID
	m.capturedCourse = course
	return nil
}

func (m *mockCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCourseRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error) {
	return nil, nil
}

func (m *mockCourseRepository) FindByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, error) {
	return nil, nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id string, course *model.Course) (*mongo.UpdateResult, error) {
	m.updateCalled = true
	m.capturedCourse = course
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockCourseRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockCourseRepository) CountByStatus(ctx context.Context, status model.CourseStatus) (int64, error) {
	return 0, nil
}

func (m *mockCourseRepository) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	return 0, nil
}

func (m *mockCourseRepository) CountByTrainerAndStatusIn(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error) {
	return 0, nil
}

func (m *mockCourseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockTrainerRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Trainer, error)
}

func (m *mockTrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	return nil
}

func (m *mockTrainerRepository) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Trainer{ID: id}, nil
}

func (m *mockTrainerRepository) FindByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	return nil, nil
}

func (m *mockTrainerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, error) {
	return nil, nil
}

func (m *mockTrainerRepository) Update(ctx context.Context, id string, trainer *model.Trainer) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockTrainerRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockTrainerRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockTrainerRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newCourseServiceForTest(repo *mockCourseRepository, trainerRepo *mockTrainerRepository) CourseService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	publisher := events.NewPublisher(nil, "", log)
	return NewCourseService(repo, trainerRepo, validator.NewCourseValidator(log), publisher, cfg)
}

func plannedCourse() *model.Course {
	return &model.Course{
		ID:        testCourseID,
		Name:      "Distributed Systems",
		StartDate: time.Now().Add(48 * time.Hour),
		EndDate:   time.Now().Add(96 * time.Hour),
		MaxSeats:  20,
		Status:    model.CoursePlanned,
	}
}

func TestCreateCourse_DefaultsToPlanned(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course := plannedCourse()
	course.ID = ""
	course.Status = ""

	if err := svc.Create(context.Background(), course); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.Status != model.CoursePlanned {
		t.Errorf("default status = %s, want PLANNED", course.Status)
	}
}

func TestCreateCourse_NonPositiveSeats(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course := plannedCourse()
	course.ID = ""
	course.MaxSeats = 0

	err := svc.Create(context.Background(), course)
	if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
		t.Fatalf("expected precondition failure for zero seats, got %v", err)
	}
}

func TestCreateCourse_EndBeforeStart(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course := plannedCourse()
	course.ID = ""
	course.EndDate = course.StartDate.Add(-24 * time.Hour)

	err := svc.Create(context.Background(), course)
	if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
		t.Fatalf("expected precondition failure for end before start, got %v", err)
	}
}

func TestCreateCourse_StartInPast(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course := plannedCourse()
	course.ID = ""
	course.StartDate = time.Now().Add(-72 * time.Hour)
	course.EndDate = time.Now().Add(24 * time.Hour)

	err := svc.Create(context.Background(), course)
	if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
		t.Fatalf("expected precondition failure for past start date, got %v", err)
	}
}

func TestCreateCourse_UnknownTrainer(t *testing.T) {
	repo := &mockCourseRepository{}
	trainerRepo := &mockTrainerRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return nil, trainerserrors.ErrNotFound
		},
	}
	svc := newCourseServiceForTest(repo, trainerRepo)

	course := plannedCourse()
	course.ID = ""
	course.TrainerID = testTrainerID

	err := svc.Create(context.Background(), course)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown trainer, got %v", err)
	}
}

func TestChangeCourseStatus_ActivateRequiresTrainer(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			return plannedCourse(), nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	_, err := svc.ChangeStatus(context.Background(), testCourseID, model.CourseActive)
	if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
		t.Fatalf("activating without a trainer must fail, got %v", err)
	}
	if repo.updateCalled {
		t.Error("no update should be written when activation is rejected")
	}
}

func TestChangeCourseStatus_ActivateWithTrainer(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			course := plannedCourse()
			course.TrainerID = testTrainerID
			return course, nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course, err := svc.ChangeStatus(context.Background(), testCourseID, model.CourseActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.Status != model.CourseActive {
		t.Errorf("status = %s, want ACTIVE", course.Status)
	}
}

func TestChangeCourseStatus_SameStatusIsNoOp(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			return plannedCourse(), nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course, err := svc.ChangeStatus(context.Background(), testCourseID, model.CoursePlanned)
	if err != nil {
		t.Fatalf("same-status change should succeed, got %v", err)
	}
	if course.Status != model.CoursePlanned {
		t.Errorf("status = %s, want PLANNED", course.Status)
	}
	if repo.updateCalled {
		t.Error("same-status change must not write to the repository")
	}
}

func TestChangeCourseStatus_CompletedIsTerminal(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			course := plannedCourse()
			course.Status = model.CourseCompleted
			return course, nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	_, err := svc.ChangeStatus(context.Background(), testCourseID, model.CoursePlanned)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if appErr.Message != "cannot change status of a completed course" {
		t.Errorf("message = %q, want %q", appErr.Message, "cannot change status of a completed course")
	}
}

func TestChangeCourseStatus_CancelledBackToPlanned(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			course := plannedCourse()
			course.Status = model.CourseCancelled
			return course, nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course, err := svc.ChangeStatus(context.Background(), testCourseID, model.CoursePlanned)
	if err != nil {
		t.Fatalf("cancelled courses should be re-plannable, got %v", err)
	}
	if course.Status != model.CoursePlanned {
		t.Errorf("status = %s, want PLANNED", course.Status)
	}
}

func TestChangeCourseStatus_PlannedToCompleted(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			return plannedCourse(), nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	_, err := svc.ChangeStatus(context.Background(), testCourseID, model.CourseCompleted)
	if !apperrors.IsCode(err, apperrors.CodeInvalidTransition) {
		t.Fatalf("planned courses cannot complete directly, got %v", err)
	}
}

func TestAssignTrainer_BlockedOnFinishedCourses(t *testing.T) {
	for _, status := range []model.CourseStatus{model.CourseCompleted, model.CourseCancelled} {
		repo := &mockCourseRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
				course := plannedCourse()
				course.Status = status
				return course, nil
			},
		}
		svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

		_, err := svc.AssignTrainer(context.Background(), testCourseID, testTrainerID)
		if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
			t.Errorf("assigning a trainer to a %s course must fail, got %v", status, err)
		}
	}
}

func TestAssignTrainer_Success(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			return plannedCourse(), nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course, err := svc.AssignTrainer(context.Background(), testCourseID, testTrainerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.TrainerID != testTrainerID {
		t.Errorf("trainer_id = %s, want %s", course.TrainerID, testTrainerID)
	}
}

func TestRemoveTrainer_NoTrainerAssigned(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			return plannedCourse(), nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	_, err := svc.RemoveTrainer(context.Background(), testCourseID)
	if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
		t.Fatalf("removing a trainer that is not assigned must fail, got %v", err)
	}
}

func TestRemoveTrainer_BlockedStatuses(t *testing.T) {
	for _, status := range []model.CourseStatus{model.CourseActive, model.CourseCompleted} {
		repo := &mockCourseRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
				course := plannedCourse()
				course.Status = status
				course.TrainerID = testTrainerID
				return course, nil
			},
		}
		svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

		_, err := svc.RemoveTrainer(context.Background(), testCourseID)
		if !apperrors.IsCode(err, apperrors.CodePreconditionFailed) {
			t.Errorf("removing the trainer from a %s course must fail, got %v", status, err)
		}
	}
}

func TestRemoveTrainer_Success(t *testing.T) {
	repo := &mockCourseRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Course, error) {
			course := plannedCourse()
			course.TrainerID = testTrainerID
			return course, nil
		},
	}
	svc := newCourseServiceForTest(repo, &mockTrainerRepository{})

	course, err := svc.RemoveTrainer(context.Background(), testCourseID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.TrainerID != "" {
		t.Errorf("trainer_id = %q, want empty", course.TrainerID)
	}
}
