package contacts

import "context"

type EventType string

const (
	EventSaved   EventType = "saved"
	EventRenamed EventType = "renamed"
	EventDeleted EventType = "deleted"
)

// Event describes a successful write.
type Event struct {
	Type         EventType `json:"type"`
	Name         string    `json:"name"`
	PreviousName string    `json:"previousName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, event *Event) error
}
