// Package filters narrows order collections by user-supplied query
// criteria. Filtering happens in memory over an already-scoped collection,
// so the store's ordering survives untouched.
package filters

import (
	"net/url"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

const dateLayout = "2006-01-02"

// OrderFilter holds the criteria parsed from a query string. Zero-valued
// criteria do not restrict the result.
type OrderFilter struct {
	Status      domain.OrderStatus
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ParseOrderFilter reads supported criteria from query values. Empty or
// malformed values are ignored rather than rejected.
func ParseOrderFilter(values url.Values) OrderFilter {
	filter := OrderFilter{
		Keyword: strings.TrimSpace(values.Get("q")),
	}
	if status := domain.OrderStatus(strings.TrimSpace(values.Get("status"))); domain.ValidOrderStatus(status) {
		filter.Status = status
	}
	if from := parseDate(values.Get("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseDate(values.Get("created_to")); to != nil {
		// Include the whole end day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &end
	}
	return filter
}

// IsZero reports whether no criterion is set.
func (f OrderFilter) IsZero() bool {
	return f.Status == "" && f.Keyword == "" && f.CreatedFrom == nil && f.CreatedTo == nil
}

// Apply returns the orders matching every supplied criterion, preserving
// the input ordering. The input slice is never modified.
func (f OrderFilter) Apply(orders []domain.Order) []domain.Order {
	if f.IsZero() {
		return orders
	}
	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if f.matches(order) {
			result = append(result, order)
		}
	}
	return result
}

func (f OrderFilter) matches(order domain.Order) bool {
	if f.Status != "" && order.Status != f.Status {
		return false
	}
	if f.Keyword != "" {
		keyword := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(order.Note), keyword) &&
			!strings.Contains(strings.ToLower(order.ProductName), keyword) {
			return false
		}
	}
	if f.CreatedFrom != nil && order.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && order.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}
