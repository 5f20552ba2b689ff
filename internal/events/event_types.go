package events

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderDeleted       EventType = "order_deleted"
	EventCustomerDeleted    EventType = "customer_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	OrderID    string      `json:"order_id,omitempty"`
	CustomerID string      `json:"customer_id"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	ProductID string             `json:"product_id"`
	Status    domain.OrderStatus `json:"status"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// OrderDeletedPayload payload.
type OrderDeletedPayload struct {
	ProductID string             `json:"product_id"`
	Status    domain.OrderStatus `json:"status"`
}
