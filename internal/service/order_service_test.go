package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/filters"
	"github.com/spec-kit/crm-service/pkg/errorutil"
)

// In-memory fakes mirroring the repository contracts.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*domain.Order
	// failOn forces CreateBatch to fail after inserting failOn rows, to
	// prove nothing survives a mid-batch failure.
	failOn int
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = uuid.NewString()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) CreateBatch(_ context.Context, orders []*domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn > 0 && len(orders) >= f.failOn {
		return assert.AnError
	}
	for _, order := range orders {
		order.ID = uuid.NewString()
		f.orders = append(f.orders, order)
	}
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.orders {
		if existing.ID == order.ID {
			f.orders[i] = order
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.orders {
		if existing.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.orders {
		if existing.ID == id {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) ListRecent(_ context.Context, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Order
	for i := len(f.orders) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *f.orders[i])
	}
	return result, nil
}

func (f *fakeOrderRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) CountByStatus(_ context.Context, status domain.OrderStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, order := range f.orders {
		if order.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	customer.ID = uuid.NewString()
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if customer, ok := f.customers[id]; ok {
		return customer, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	var result []domain.Customer
	for _, customer := range f.customers {
		result = append(result, *customer)
	}
	return result, nil
}

func (f *fakeCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.customers)), nil
}

func newTestCustomerRepo(ids ...string) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{customers: map[string]*domain.Customer{}}
	for _, id := range ids {
		repo.customers[id] = &domain.Customer{ID: id, Name: "customer-" + id}
	}
	return repo
}

func collectEvents(dispatcher events.Dispatcher, types ...events.EventType) *[]events.Event {
	var collected []events.Event
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			collected = append(collected, event)
			return nil
		})
	}
	return &collected
}

func TestCreateOrdersAttributesEveryRowToCustomer(t *testing.T) {
	repo := &fakeOrderRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	created := collectEvents(dispatcher, events.EventOrderCreated)
	svc := NewOrderService(repo, newTestCustomerRepo("c1"), dispatcher)

	orders := []*domain.Order{
		{CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending},
		{CustomerID: "c1", ProductID: "p2", Status: domain.OrderStatusDone},
		{CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending},
	}
	require.NoError(t, svc.CreateOrders(context.Background(), "u1", orders))

	require.Len(t, repo.orders, 3)
	for _, order := range repo.orders {
		assert.Equal(t, "c1", order.CustomerID)
		assert.NotEmpty(t, order.ID)
	}
	assert.Len(t, *created, 3)
}

func TestCreateOrdersFailurePersistsNothing(t *testing.T) {
	repo := &fakeOrderRepo{failOn: 1}
	dispatcher := events.NewInMemoryDispatcher()
	created := collectEvents(dispatcher, events.EventOrderCreated)
	svc := NewOrderService(repo, newTestCustomerRepo("c1"), dispatcher)

	orders := []*domain.Order{
		{CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending},
		{CustomerID: "c1", ProductID: "p2", Status: domain.OrderStatusDone},
	}
	require.Error(t, svc.CreateOrders(context.Background(), "u1", orders))

	assert.Empty(t, repo.orders)
	assert.Empty(t, *created)
}

func TestUpdateOrderChangesOnlyTarget(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, newTestCustomerRepo("c1"), events.NewInMemoryDispatcher())

	first := &domain.Order{CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending}
	second := &domain.Order{CustomerID: "c1", ProductID: "p2", Status: domain.OrderStatusPending}
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))

	updated := *first
	updated.Status = domain.OrderStatusDone
	require.NoError(t, svc.UpdateOrder(context.Background(), "u1", &updated, domain.OrderStatusPending))

	got, err := svc.GetOrder(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDone, got.Status)

	other, err := svc.GetOrder(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, other.Status)
}

func TestUpdateMissingOrderIsNotFound(t *testing.T) {
	svc := NewOrderService(&fakeOrderRepo{}, newTestCustomerRepo(), events.NewInMemoryDispatcher())

	err := svc.UpdateOrder(context.Background(), "u1", &domain.Order{ID: "ghost"}, domain.OrderStatusPending)
	assert.True(t, errorutil.IsNotFound(err))
}

func TestDeleteOrderRemovesExactlyOne(t *testing.T) {
	repo := &fakeOrderRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	deleted := collectEvents(dispatcher, events.EventOrderDeleted)
	svc := NewOrderService(repo, newTestCustomerRepo("c1"), dispatcher)

	first := &domain.Order{CustomerID: "c1", ProductID: "p1", Status: domain.OrderStatusPending}
	second := &domain.Order{CustomerID: "c1", ProductID: "p2", Status: domain.OrderStatusDone}
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))

	require.NoError(t, svc.DeleteOrder(context.Background(), "u1", first.ID))

	_, err := svc.GetOrder(context.Background(), first.ID)
	assert.True(t, errorutil.IsNotFound(err))

	_, err = svc.GetOrder(context.Background(), second.ID)
	assert.NoError(t, err)
	assert.Len(t, *deleted, 1)
}

func TestCustomerOrdersAppliesFilter(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, newTestCustomerRepo("c1"), events.NewInMemoryDispatcher())

	for _, status := range []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusDone, domain.OrderStatusDone} {
		require.NoError(t, repo.Create(context.Background(), &domain.Order{CustomerID: "c1", ProductID: "p1", Status: status}))
	}

	filtered, err := svc.CustomerOrders(context.Background(), "c1", filters.OrderFilter{Status: domain.OrderStatusDone})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	all, err := svc.CustomerOrders(context.Background(), "c1", filters.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewOrderService(&fakeOrderRepo{}, newTestCustomerRepo(), events.NewInMemoryDispatcher())

	_, err := svc.GetCustomer(context.Background(), "ghost")
	assert.True(t, errorutil.IsNotFound(err))
}
