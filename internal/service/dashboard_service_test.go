package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
)

type fakeStatsCache struct {
	stats *DashboardStats
	sets  int
}

func (f *fakeStatsCache) Get(_ context.Context) (*DashboardStats, bool) {
	if f.stats == nil {
		return nil, false
	}
	return f.stats, true
}

func (f *fakeStatsCache) Set(_ context.Context, stats DashboardStats) {
	f.stats = &stats
	f.sets++
}

func (f *fakeStatsCache) Invalidate(_ context.Context) {
	f.stats = nil
}

func seededOrderRepo(t *testing.T, statuses ...domain.OrderStatus) *fakeOrderRepo {
	t.Helper()
	repo := &fakeOrderRepo{}
	for _, status := range statuses {
		require.NoError(t, repo.Create(context.Background(), &domain.Order{CustomerID: "c1", ProductID: "p1", Status: status}))
	}
	return repo
}

func TestStatsComputedAndCached(t *testing.T) {
	repo := seededOrderRepo(t,
		domain.OrderStatusPending,
		domain.OrderStatusPending,
		domain.OrderStatusDelivered,
		domain.OrderStatusDone,
	)
	cache := &fakeStatsCache{}
	svc := NewDashboardService(repo, newTestCustomerRepo("c1", "c2"), cache, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalCustomers)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.Delivered)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache.
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestOrderEventsInvalidateStatsCache(t *testing.T) {
	repo := seededOrderRepo(t, domain.OrderStatusPending)
	cache := &fakeStatsCache{}
	dispatcher := events.NewInMemoryDispatcher()

	svc := NewDashboardService(repo, newTestCustomerRepo("c1"), cache, zap.NewNop())
	svc.RegisterInvalidation(dispatcher)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache.stats)

	dispatcher.Publish(context.Background(), events.Event{Type: events.EventOrderCreated})
	assert.Nil(t, cache.stats)
}

func TestRecentOrdersHonorsLimit(t *testing.T) {
	repo := seededOrderRepo(t,
		domain.OrderStatusPending,
		domain.OrderStatusDone,
		domain.OrderStatusDone,
	)
	svc := NewDashboardService(repo, newTestCustomerRepo("c1"), nil, zap.NewNop())

	recent, err := svc.RecentOrders(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
