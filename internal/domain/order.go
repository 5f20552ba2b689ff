package domain

import "time"

// OrderStatus enumerates the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusOutForDelivery OrderStatus = "Out for delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusDone           OrderStatus = "Done"
)

// OrderStatuses lists every valid status, in display order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusDone,
	}
}

// ValidOrderStatus reports whether s belongs to the closed status set.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusDone:
		return true
	}
	return false
}

// Order links one customer to one product with a tracked status.
// An order cannot exist without its customer; the schema enforces both
// foreign keys.
type Order struct {
	ID         string
	CustomerID string
	ProductID  string
	Status     OrderStatus
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// ProductName is populated by list queries that join products, for
	// display only. It is never written back.
	ProductName string
}
