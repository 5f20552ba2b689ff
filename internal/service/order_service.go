package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/filters"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// OrderService coordinates the order workflow: batch creation for one
// customer, single-order mutation, and deletion. Persistence failures
// propagate untouched; there are no retries.
type OrderService struct {
	orders     repository.OrderRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, customers: customers, dispatcher: dispatcher}
}

// GetCustomer loads a customer or reports NotFound.
func (s *OrderService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("customer")
		}
		return nil, err
	}
	return customer, nil
}

// CustomerOrders returns the customer's orders narrowed by the filter,
// preserving the store's ordering.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID string, filter filters.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(orders), nil
}

// CreateOrders persists every order in one transaction. Either all rows
// land or none does.
func (s *OrderService) CreateOrders(ctx context.Context, actorID string, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	if err := s.orders.CreateBatch(ctx, orders); err != nil {
		return err
	}
	for _, order := range orders {
		s.publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventOrderCreated,
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			ActorID:    actorID,
			Timestamp:  time.Now(),
			Payload: events.OrderCreatedPayload{
				ProductID: order.ProductID,
				Status:    order.Status,
			},
		})
	}
	return nil
}

// GetOrder loads an order or reports NotFound.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("order")
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder persists a mutation of one existing order. Concurrent updates
// are last-write-wins; the store serializes the conflicting writes.
func (s *OrderService) UpdateOrder(ctx context.Context, actorID string, order *domain.Order, oldStatus domain.OrderStatus) error {
	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("order")
		}
		return err
	}
	if order.Status != oldStatus {
		s.publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventOrderStatusChanged,
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			ActorID:    actorID,
			Timestamp:  time.Now(),
			Payload: events.OrderStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: order.Status,
			},
		})
	}
	return nil
}

// DeleteOrder removes one order. The confirmation page may have rendered
// before a concurrent delete, so a vanished row surfaces as NotFound.
func (s *OrderService) DeleteOrder(ctx context.Context, actorID, id string) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("order")
		}
		return err
	}
	s.publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventOrderDeleted,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ActorID:    actorID,
		Timestamp:  time.Now(),
		Payload: events.OrderDeletedPayload{
			ProductID: order.ProductID,
			Status:    order.Status,
		},
	})
	return nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, event)
}
