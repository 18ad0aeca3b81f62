package service

import (
	"context"
	"strings"
	"testing"

	"coursedesk/internal/orders/validator"
	userserrors "coursedesk/internal/users/errors"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/events"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testOrderID = "507f1f77bcf86cd799439051"
	testUserID  = "507f1f77bcf86cd799439052"
)

type mockOrderRepository struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Order, error)
	capturedOrder  *model.Order
	capturedStatus model.OrderStatus
}

func (m *mockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	order.ID = testOrderID
	m.capturedOrder = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Order{ID: id, OrderNumber: "ORD-AB12CD34", Status: model.OrderPending, UserID: testUserID}, nil
}

func (m *mockOrderRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*mongo.UpdateResult, error) {
	m.capturedStatus = status
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockOrderRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockOrderRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockOrderRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Username: "buyer", Email: "buyer@example.org"}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newOrderServiceForTest(repo *mockOrderRepository, userRepo *mockUserRepository) OrderService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	publisher := events.NewPublisher(nil, "", log)
	return NewOrderService(repo, userRepo, validator.NewOrderValidator(log), publisher, cfg)
}

func validOrder() *model.Order {
	return &model.Order{
		TotalAmount:     249.90,
		ShippingAddress: "1 Main Street, Springfield",
		UserID:          testUserID,
	}
}

func TestCreateOrder_GeneratesNumberAndDefaultsToPending(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newOrderServiceForTest(repo, &mockUserRepository{})

	order := validOrder()
	if err := svc.Create(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != model.OrderPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	if len(order.OrderNumber) != 12 || !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order number %q does not match ORD-XXXXXXXX", order.OrderNumber)
	}
	if order.OrderNumber != strings.ToUpper(order.OrderNumber) {
		t.Errorf("order number %q is not uppercase", order.OrderNumber)
	}
}

func TestCreateOrder_KeepsProvidedNumber(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newOrderServiceForTest(repo, &mockUserRepository{})

	order := validOrder()
	order.OrderNumber = "ORD-12345678"
	if err := svc.Create(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderNumber != "ORD-12345678" {
		t.Errorf("order number = %q, want the provided one", order.OrderNumber)
	}
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	repo := &mockOrderRepository{}
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newOrderServiceForTest(repo, userRepo)

	err := svc.Create(context.Background(), validOrder())
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
	if repo.capturedOrder != nil {
		t.Error("order must not be created for an unknown user")
	}
}

func TestCreateOrder_NonPositiveAmount(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newOrderServiceForTest(repo, &mockUserRepository{})

	order := validOrder()
	order.TotalAmount = 0

	err := svc.Create(context.Background(), order)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestUpdateOrderStatus_AnyValidStatusAllowed(t *testing.T) {
	// Orders carry no transition table, so even DELIVERED back to PENDING
	// goes through.
	repo := &mockOrderRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: id, Status: model.OrderDelivered, UserID: testUserID}, nil
		},
	}
	svc := newOrderServiceForTest(repo, &mockUserRepository{})

	order, err := svc.UpdateStatus(context.Background(), testOrderID, model.OrderPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	if repo.capturedStatus != model.OrderPending {
		t.Errorf("written status = %s, want PENDING", repo.capturedStatus)
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newOrderServiceForTest(repo, &mockUserRepository{})

	_, err := svc.UpdateStatus(context.Background(), testOrderID, model.OrderStatus("REFUNDED"))
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.capturedStatus != "" {
		t.Error("invalid status must not be written")
	}
}

func TestGetOrdersByUser_UnknownUser(t *testing.T) {
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newOrderServiceForTest(&mockOrderRepository{}, userRepo)

	_, _, err := svc.GetByUser(context.Background(), testUserID, 10, 0)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
