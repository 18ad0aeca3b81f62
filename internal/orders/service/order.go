package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	orderserrors "coursedesk/internal/orders/errors"
	"coursedesk/internal/orders/repository"
	"coursedesk/internal/orders/validator"
	userserrors "coursedesk/internal/users/errors"
	userrepo "coursedesk/internal/users/repository"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/events"
	"coursedesk/pkg/model"
	"coursedesk/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrderService interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Order, int64, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	repo      repository.OrderRepository
	userRepo  userrepo.UserRepository
	validator *validator.OrderValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewOrderService(
	repo repository.OrderRepository,
	userRepo userrepo.UserRepository,
	validator *validator.OrderValidator,
	publisher events.Publisher,
	cfg *config.Config,
) OrderService {
	return &orderService{
		repo:      repo,
		userRepo:  userRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *orderService) Create(ctx context.Context, order *model.Order) error {
	s.applyDefaults(order)
	s.sanitize(order)
	if err := s.validate(order); err != nil {
		return err
	}

	if err := s.verifyUserExists(ctx, order.UserID); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, order); err != nil {
			return apperrors.Internal("Failed to create order", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create order", "error", err)
		return err
	}

	s.publisher.Publish(ctx, events.New(events.TypeOrderCreated, "order", order.ID, map[string]any{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	}))

	s.cfg.Log.Info("Order created successfully",
		"id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
	)
	return nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Order", id)
		}
		if errors.Is(err, orderserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid order ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve order", err)
	}

	return order, nil
}

func (s *orderService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Order, int64, error) {
	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count orders", "error", errCount)
			errCount = apperrors.Internal("Failed to count orders", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		orders, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list orders", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve orders", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return orders, count, nil
}

func (s *orderService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Order, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.verifyUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count user orders", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count orders", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		orders, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list user orders", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve orders", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return orders, count, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid order status: %s", status))
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.UpdateStatus(sessCtx, id, status); err != nil {
			return apperrors.Internal("Failed to update order status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update order status", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Order status updated", "id", id, "status", status)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Order ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, orderserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Order", id)
			}
			if errors.Is(err, orderserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid order ID format")
			}
			return apperrors.Internal("Failed to delete order", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Order deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *orderService) verifyUserExists(ctx context.Context, userID string) error {
	_, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		return apperrors.Internal("Failed to verify user", err)
	}
	return nil
}

func (s *orderService) sanitize(o *model.Order) {
	o.ShippingAddress = sanitizer.TrimAndNormalize(o.ShippingAddress)
}

func (s *orderService) applyDefaults(o *model.Order) {
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber()
	}
}

func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *orderService) validate(order *model.Order) error {
	if err := s.validator.Validate(order); err != nil {
		s.cfg.Log.Warn("Order validation failed", "error", err)
		return apperrors.Validation("Invalid order input", map[string]any{"error": err.Error()})
	}
	return nil
}
