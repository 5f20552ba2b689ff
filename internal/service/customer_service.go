package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// CustomerService manages the customer roster.
type CustomerService struct {
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository, dispatcher events.Dispatcher) *CustomerService {
	return &CustomerService{customers: customers, dispatcher: dispatcher}
}

// List returns all customers in creation order.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

// Create persists a new customer.
func (s *CustomerService) Create(ctx context.Context, customer *domain.Customer) error {
	return s.customers.Create(ctx, customer)
}

// Update persists changes to an existing customer.
func (s *CustomerService) Update(ctx context.Context, customer *domain.Customer) error {
	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("customer")
		}
		return err
	}
	return nil
}

// Delete removes a customer. The store cascades the delete to the
// customer's orders.
func (s *CustomerService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("customer")
		}
		return err
	}
	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventCustomerDeleted,
			CustomerID: id,
			ActorID:    actorID,
			Timestamp:  time.Now(),
		})
	}
	return nil
}
