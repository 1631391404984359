package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/events"
)

// EventSink accepts events for asynchronous delivery.
type EventSink interface {
	Enqueue(event events.Event) bool
}

// NotificationService writes an audit log line for every employee event and
// forwards it to the webhook sink when one is configured.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sink       EventSink
}

// NewNotificationService creates the service. sink may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sink EventSink) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		sink:       sink,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.handleEmployeeEvent)
	n.dispatcher.Subscribe(events.EventEmployeeUpdated, n.handleEmployeeEvent)
	n.dispatcher.Subscribe(events.EventEmployeeDeleted, n.handleEmployeeEvent)
}

func (n *NotificationService) handleEmployeeEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("actor", event.Actor.Subject),
		zap.Any("payload", event.Payload))
	n.forward(event)
	return nil
}

func (n *NotificationService) forward(event events.Event) {
	if n.sink == nil {
		return
	}
	if !n.sink.Enqueue(event) {
		n.logger.Debug("event not forwarded", zap.String("event_id", event.ID))
	}
}
