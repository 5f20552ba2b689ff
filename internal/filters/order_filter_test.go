package filters

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

func sampleOrders() []domain.Order {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: "o1", Status: domain.OrderStatusPending, ProductName: "Rose", CreatedAt: base},
		{ID: "o2", Status: domain.OrderStatusDone, ProductName: "Tulip", Note: "urgent", CreatedAt: base.AddDate(0, 0, 1)},
		{ID: "o3", Status: domain.OrderStatusDone, ProductName: "Fern", CreatedAt: base.AddDate(0, 0, 2)},
		{ID: "o4", Status: domain.OrderStatusDelivered, ProductName: "Rose", CreatedAt: base.AddDate(0, 0, 3)},
	}
}

func TestFilterByStatusPreservesOrdering(t *testing.T) {
	filter := ParseOrderFilter(url.Values{"status": {"Done"}})

	result := filter.Apply(sampleOrders())
	require.Len(t, result, 2)
	assert.Equal(t, "o2", result[0].ID)
	assert.Equal(t, "o3", result[1].ID)
}

func TestEmptyFilterIsNoOp(t *testing.T) {
	filter := ParseOrderFilter(url.Values{"status": {""}, "q": {""}})

	assert.True(t, filter.IsZero())
	assert.Len(t, filter.Apply(sampleOrders()), 4)
}

func TestUnknownStatusIgnored(t *testing.T) {
	filter := ParseOrderFilter(url.Values{"status": {"Vanished"}})

	assert.True(t, filter.IsZero())
	assert.Len(t, filter.Apply(sampleOrders()), 4)
}

func TestKeywordMatchesNoteAndProduct(t *testing.T) {
	byNote := ParseOrderFilter(url.Values{"q": {"URGENT"}})
	result := byNote.Apply(sampleOrders())
	require.Len(t, result, 1)
	assert.Equal(t, "o2", result[0].ID)

	byProduct := ParseOrderFilter(url.Values{"q": {"rose"}})
	assert.Len(t, byProduct.Apply(sampleOrders()), 2)
}

func TestDateRange(t *testing.T) {
	filter := ParseOrderFilter(url.Values{
		"created_from": {"2024-03-02"},
		"created_to":   {"2024-03-03"},
	})

	result := filter.Apply(sampleOrders())
	require.Len(t, result, 2)
	assert.Equal(t, "o2", result[0].ID)
	assert.Equal(t, "o3", result[1].ID)
}

func TestMalformedDateIgnored(t *testing.T) {
	filter := ParseOrderFilter(url.Values{"created_from": {"yesterday"}})
	assert.True(t, filter.IsZero())
}

func TestCombinedCriteria(t *testing.T) {
	filter := ParseOrderFilter(url.Values{"status": {"Done"}, "q": {"fern"}})

	result := filter.Apply(sampleOrders())
	require.Len(t, result, 1)
	assert.Equal(t, "o3", result[0].ID)
}
