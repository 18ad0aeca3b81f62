package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockCourseService struct {
	getAllFunc       func(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error)
	changeStatusFunc func(ctx context.Context, id string, status model.CourseStatus) (*model.Course, error)
}

func (m *mockCourseService) Create(ctx context.Context, course *model.Course) error { return nil }

func (m *mockCourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	return nil, nil
}

func (m *mockCourseService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Course{}, 0, nil
}

func (m *mockCourseService) GetByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, int64, error) {
	return []*model.Course{}, 0, nil
}

func (m *mockCourseService) Update(ctx context.Context, id string, updates *model.CourseUpdate) error {
	return nil
}

func (m *mockCourseService) AssignTrainer(ctx context.Context, courseID string, trainerID string) (*model.Course, error) {
	return nil, nil
}

func (m *mockCourseService) RemoveTrainer(ctx context.Context, courseID string) (*model.Course, error) {
	return nil, nil
}

func (m *mockCourseService) ChangeStatus(ctx context.Context, id string, status model.CourseStatus) (*model.Course, error) {
	if m.changeStatusFunc != nil {
		return m.changeStatusFunc(ctx, id, status)
	}
	return nil, nil
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestGetAll_QueryParameters(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	mockService := &mockCourseService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error) {
			receivedLimit = limit
			receivedOffset = offset
			return []*model.Course{{ID: "1", Name: "Go Basics"}}, 42, nil
		},
	}
	handler := &CourseHandler{service: mockService, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses?limit=20&offset=10", nil)
	w := httptest.NewRecorder()
	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedLimit != 20 || receivedOffset != 10 {
		t.Errorf("service received limit=%d offset=%d, want 20/10", receivedLimit, receivedOffset)
	}

	var response struct {
		Data       []model.Course `json:"data"`
		TotalCount int64          `json:"total_count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.TotalCount != 42 {
		t.Errorf("total_count = %d, want 42", response.TotalCount)
	}
	if len(response.Data) != 1 {
		t.Errorf("expected 1 item, got %d", len(response.Data))
	}
}

func TestGetAll_InvalidQueryParameters(t *testing.T) {
	handler := &CourseHandler{service: &mockCourseService{}, log: newTestLogger()}

	tests := []struct {
		name        string
		queryString string
	}{
		{"alphabetic limit", "?limit=abc"},
		{"alphabetic offset", "?offset=xyz"},
		{"both invalid", "?limit=abc&offset=xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/courses"+tt.queryString, nil)
			w := httptest.NewRecorder()
			handler.GetAll(w, req, httprouter.Params{})

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestGetAll_NormalizesOutOfRangeValues(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	mockService := &mockCourseService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error) {
			receivedLimit = limit
			receivedOffset = offset
			return []*model.Course{}, 0, nil
		},
	}
	handler := &CourseHandler{service: mockService, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses?limit=999999&offset=-5", nil)
	w := httptest.NewRecorder()
	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedLimit != 100 {
		t.Errorf("oversized limit clamped to %d, want 100", receivedLimit)
	}
	if receivedOffset != 0 {
		t.Errorf("negative offset normalized to %d, want 0", receivedOffset)
	}
}

func TestChangeStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"not found", apperrors.NotFoundWithID("Course", "abc"), http.StatusNotFound},
		{"invalid transition", apperrors.InvalidTransition("course", "PLANNED", "COMPLETED"), http.StatusConflict},
		{"precondition failed", apperrors.PreconditionFailed("cannot activate a course without an assigned trainer"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockCourseService{
				changeStatusFunc: func(ctx context.Context, id string, status model.CourseStatus) (*model.Course, error) {
					return nil, tt.serviceErr
				},
			}
			handler := &CourseHandler{service: mockService, log: newTestLogger()}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/courses/id/abc/status?status=ACTIVE", nil)
			w := httptest.NewRecorder()
			handler.ChangeStatus(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var response struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Error == "" {
				t.Error("error payload missing message")
			}
		})
	}
}

func TestChangeStatus_PassesQueryStatus(t *testing.T) {
	var receivedStatus model.CourseStatus
	mockService := &mockCourseService{
		changeStatusFunc: func(ctx context.Context, id string, status model.CourseStatus) (*model.Course, error) {
			receivedStatus = status
			return &model.Course{ID: id, Status: status}, nil
		},
	}
	handler := &CourseHandler{service: mockService, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/courses/id/abc/status?status=CANCELLED", nil)
	w := httptest.NewRecorder()
	handler.ChangeStatus(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedStatus != model.CourseCancelled {
		t.Errorf("service received status %s, want CANCELLED", receivedStatus)
	}
}
