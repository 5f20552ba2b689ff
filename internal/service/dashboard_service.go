package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
)

// DashboardStats are the aggregate counts shown on the home page.
type DashboardStats struct {
	TotalCustomers int64 `json:"total_customers"`
	TotalOrders    int64 `json:"total_orders"`
	Delivered      int64 `json:"delivered"`
	Pending        int64 `json:"pending"`
}

// StatsCache stores computed dashboard aggregates for a short TTL.
type StatsCache interface {
	Get(ctx context.Context) (*DashboardStats, bool)
	Set(ctx context.Context, stats DashboardStats)
	Invalidate(ctx context.Context)
}

// DashboardService assembles the home page aggregates, serving them from
// cache when order activity has not invalidated it.
type DashboardService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	cache     StatsCache
	logger    *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(orders repository.OrderRepository, customers repository.CustomerRepository, cache StatsCache, logger *zap.Logger) *DashboardService {
	return &DashboardService{orders: orders, customers: customers, cache: cache, logger: logger}
}

// Stats returns aggregate counts, preferring cached values.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return *cached, nil
		}
	}

	var stats DashboardStats
	var err error
	if stats.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return stats, err
	}
	if stats.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return stats, err
	}
	if stats.Delivered, err = s.orders.CountByStatus(ctx, domain.OrderStatusDelivered); err != nil {
		return stats, err
	}
	if stats.Pending, err = s.orders.CountByStatus(ctx, domain.OrderStatusPending); err != nil {
		return stats, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// RecentOrders returns the newest orders across all customers.
func (s *DashboardService) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.orders.ListRecent(ctx, limit)
}

// RegisterInvalidation drops cached aggregates whenever order activity
// changes the counts.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		s.cache.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventOrderCreated, invalidate)
	dispatcher.Subscribe(events.EventOrderStatusChanged, invalidate)
	dispatcher.Subscribe(events.EventOrderDeleted, invalidate)
	dispatcher.Subscribe(events.EventCustomerDeleted, invalidate)
}
