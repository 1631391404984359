package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// Actor encapsulates actor metadata for an event. An empty Type means the
// request was not authenticated.
type Actor struct {
	Type    domain.SubjectType `json:"type,omitempty"`
	Subject string             `json:"subject,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID int64       `json:"employee_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a fresh id and timestamp.
func NewEvent(ctx context.Context, eventType EventType, employeeID int64, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Actor:      ActorFromContext(ctx),
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Company string `json:"company,omitempty"`
}

// EmployeeUpdatedPayload lists the fields the update wrote.
type EmployeeUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type actorKey struct{}

// WithActor attaches the caller to ctx for events published further down.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by WithActor.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
