package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/events"
)

// NotificationService logs order activity for operators. It subscribes to
// the same dispatcher the order workflow publishes on.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderDeleted, n.handleOrderDeleted)
}

func (n *NotificationService) handleOrderCreated(_ context.Context, event events.Event) error {
	n.logger.Info("OrderCreated",
		zap.String("order_id", event.OrderID),
		zap.String("customer_id", event.CustomerID),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

func (n *NotificationService) handleOrderStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("OrderStatusChanged",
		zap.String("order_id", event.OrderID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (n *NotificationService) handleOrderDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("OrderDeleted",
		zap.String("order_id", event.OrderID),
		zap.String("customer_id", event.CustomerID),
	)
	return nil
}
