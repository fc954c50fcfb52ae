package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic carrying every record-change event.
const RecordEventsTopic = "records.changes"

type EventType string

const (
	EventUserCreated       EventType = "user.created"
	EventUserUpdated       EventType = "user.updated"
	EventUserDeleted       EventType = "user.deleted"
	EventStudentCreated    EventType = "student.created"
	EventStudentUpdated    EventType = "student.updated"
	EventStudentDeleted    EventType = "student.deleted"
	EventTeacherCreated    EventType = "teacher.created"
	EventTeacherUpdated    EventType = "teacher.updated"
	EventTeacherDeleted    EventType = "teacher.deleted"
	EventCourseCreated     EventType = "course.created"
	EventCourseUpdated     EventType = "course.updated"
	EventCourseDeleted     EventType = "course.deleted"
	EventEnrollmentCreated EventType = "enrollment.created"
	EventEnrollmentGraded  EventType = "enrollment.graded"
	EventEnrollmentDeleted EventType = "enrollment.deleted"
)

// RecordEvent describes one successful mutation. Events are emitted after the
// transaction commits; consumers must tolerate at-most-once delivery.
type RecordEvent struct {
	Type       EventType   `json:"type"`
	EntityID   uint        `json:"entity_id"`
	ActorID    uint        `json:"actor_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Detail     interface{} `json:"detail,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event *RecordEvent) error
	Close() error
}

// WatermillPublisher publishes record events over a watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewGoChannelPublisher builds an in-process pub/sub suitable for a single
// instance; swap the message.Publisher for a broker-backed one without
// touching callers.
func NewGoChannelPublisher(logger *slog.Logger) *WatermillPublisher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return NewWatermillPublisher(pubSub, logger)
}

func NewWatermillPublisher(publisher message.Publisher, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *RecordEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))

	if err := p.publisher.Publish(RecordEventsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Published record event", "type", event.Type, "entity_id", event.EntityID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher records events for tests.
type MockEventPublisher struct {
	logger *slog.Logger
	events []*RecordEvent
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *RecordEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

func (m *MockEventPublisher) GetPublishedEvents() []*RecordEvent {
	return m.events
}

func (m *MockEventPublisher) ClearEvents() {
	m.events = nil
}
