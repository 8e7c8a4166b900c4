package po

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g. "student.registered", "lesson.completed"
	Payload     string    `gorm:"type:json;not null"`               // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := serializeEventToJSON(event)
	if err != nil {
		return nil, err
	}

	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// serializeEventToJSON Serialize domain event to JSON string
// Event-specific fields are probed through getter interfaces so the outbox
// does not depend on concrete event types.
func serializeEventToJSON(event shared.DomainEvent) (string, error) {
	eventData := map[string]interface{}{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
	}

	if g, ok := event.(interface{ StudentID() string }); ok {
		eventData["student_id"] = g.StudentID()
	}
	if g, ok := event.(interface{ ExternalID() string }); ok {
		eventData["external_id"] = g.ExternalID()
	}
	if g, ok := event.(interface{ Email() string }); ok {
		eventData["email"] = g.Email()
	}
	if g, ok := event.(interface{ EnrollmentID() string }); ok {
		eventData["enrollment_id"] = g.EnrollmentID()
	}
	if g, ok := event.(interface{ CourseID() string }); ok {
		eventData["course_id"] = g.CourseID()
	}
	if g, ok := event.(interface{ CourseName() string }); ok {
		eventData["course_name"] = g.CourseName()
	}
	if g, ok := event.(interface{ CoursePrice() float64 }); ok {
		eventData["course_price"] = g.CoursePrice()
	}
	if g, ok := event.(interface{ LessonID() string }); ok {
		eventData["lesson_id"] = g.LessonID()
	}
	if g, ok := event.(interface{ CertificateID() string }); ok {
		eventData["certificate_id"] = g.CertificateID()
	}
	if g, ok := event.(interface{ Reason() string }); ok {
		eventData["reason"] = g.Reason()
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
