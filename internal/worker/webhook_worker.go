package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
)

// WebhookWorker posts employee events to an external URL from a bounded
// queue. A full queue drops the event instead of blocking the request.
type WebhookWorker struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan events.Event
	done   chan struct{}
}

// NewWebhookWorker builds a worker; it does nothing until Start is called.
func NewWebhookWorker(cfg config.NotificationConfig, logger *zap.Logger) *WebhookWorker {
	size := cfg.QueueSize
	if size <= 0 {
		size = 100
	}
	return &WebhookWorker{
		url:     cfg.WebhookURL,
		timeout: cfg.Timeout(),
		logger:  logger,
		queue:   make(chan events.Event, size),
		done:    make(chan struct{}),
	}
}

// Start launches the delivery loop.
func (w *WebhookWorker) Start() {
	go func() {
		defer close(w.done)
		for event := range w.queue {
			if err := w.deliver(event); err != nil {
				w.logger.Warn("webhook delivery failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}()
}

// Enqueue schedules event for delivery and reports whether it was accepted.
func (w *WebhookWorker) Enqueue(event events.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		w.logger.Warn("webhook queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return false
	}
}

// Stop closes the queue and waits for pending deliveries or ctx expiry.
func (w *WebhookWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *WebhookWorker) deliver(event events.Event) error {
	agent := fiber.Post(w.url)
	agent.Timeout(w.timeout)
	agent.Set("X-Event-Type", string(event.Type))
	agent.Set("X-Event-ID", event.ID)
	agent.JSON(event)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook responded with status %d", code)
	}
	return nil
}
