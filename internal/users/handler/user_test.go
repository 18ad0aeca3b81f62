package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockUserService struct {
	getByIDFunc func(ctx context.Context, id string) (*model.User, error)
	getAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
}

func (m *mockUserService) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return &model.User{Email: email}, nil
}

func (m *mockUserService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.User{}, 0, nil
}

func (m *mockUserService) Update(ctx context.Context, id string, updates *model.UserUpdate) error {
	return nil
}

func (m *mockUserService) Delete(ctx context.Context, id string) error { return nil }

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestGetByID_ScrubsPassword(t *testing.T) {
	mockService := &mockUserService{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "student42", Email: "student@example.org", Password: "hunter2secret"}, nil
		},
	}
	handler := &UserHandler{service: mockService, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/id/abc", nil)
	w := httptest.NewRecorder()
	handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "hunter2secret") {
		t.Errorf("password leaked into response: %s", w.Body.String())
	}
}

func TestGetAll_ScrubsPasswords(t *testing.T) {
	mockService := &mockUserService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
			return []*model.User{
				{ID: "1", Username: "a", Password: "firstsecret"},
				{ID: "2", Username: "b", Password: "secondsecret"},
			}, 2, nil
		},
	}
	handler := &UserHandler{service: mockService, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "firstsecret") || strings.Contains(body, "secondsecret") {
		t.Errorf("password leaked into response: %s", body)
	}
}

func TestCreate_ScrubsPassword(t *testing.T) {
	handler := &UserHandler{service: &mockUserService{}, log: newTestLogger()}

	body := strings.NewReader(`{"username":"student42","email":"student@example.org","password":"hunter2secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	w := httptest.NewRecorder()
	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "hunter2secret") {
		t.Errorf("password leaked into response: %s", w.Body.String())
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	handler := &UserHandler{service: &mockUserService{}, log: newTestLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
