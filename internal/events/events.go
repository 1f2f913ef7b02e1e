package events

import (
	"context"

	"github.com/groblegark/commtrack/internal/model"
)

// Event topic constants
const (
	TopicEventCreated = "commtrack.event.created"
	TopicEventUpdated = "commtrack.event.updated"
	TopicEventDeleted = "commtrack.event.deleted"

	TopicCompanyCreated = "commtrack.company.created"
	TopicCompanyUpdated = "commtrack.company.updated"
	TopicCompanyDeleted = "commtrack.company.deleted"

	TopicMethodCreated = "commtrack.method.created"
	TopicMethodDeleted = "commtrack.method.deleted"
)

// Event types

type EventCreated struct {
	Event *model.CommEvent `json:"event"`
}

type EventUpdated struct {
	Event   *model.CommEvent `json:"event"`
	Changes map[string]any   `json:"changes"` // field name -> new value
}

type EventDeleted struct {
	EventID string `json:"event_id"`
}

type CompanyCreated struct {
	Company *model.Company `json:"company"`
}

type CompanyUpdated struct {
	Company *model.Company `json:"company"`
	Changes map[string]any `json:"changes"`
}

type CompanyDeleted struct {
	CompanyID string `json:"company_id"`
}

type MethodCreated struct {
	Method *model.Method `json:"method"`
}

type MethodDeleted struct {
	MethodID string `json:"method_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
