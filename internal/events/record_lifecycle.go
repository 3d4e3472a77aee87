package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const RecordLifecycleTopic = "crud.records.lifecycle.v1"

const (
	EntityEmployee = "employee"
	EntityProduct  = "product"

	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionSoftDeleted = "soft_deleted"
	ActionDeleted     = "deleted"
)

type RecordLifecycleEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"` // e.g. employee.created
	RequestID  string    `json:"request_id,omitempty"`
	Entity     string    `json:"entity"`
	RecordID   uint      `json:"record_id"`
	Code       string    `json:"code,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewRecordLifecycleEvent(entity, action, requestID string, recordID uint, code string) RecordLifecycleEvent {
	return RecordLifecycleEvent{
		EventID:    uuid.NewString(),
		EventType:  entity + "." + action,
		RequestID:  requestID,
		Entity:     entity,
		RecordID:   recordID,
		Code:       code,
		OccurredAt: time.Now().UTC(),
	}
}

//go:generate mockgen -source=record_lifecycle.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, event RecordLifecycleEvent) error
}
