// Package events delivers contact change events through a message broker.
package events

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/domains/contacts"
)

var ErrInvalidEvent = errors.New("invalid event")

//go:generate mockgen -destination=mock_sender_test.go -package=events_test . Sender

type Sender interface {
	SendMessage(ctx context.Context, message interface{}) error
}

// Notifier publishes every contact change.
type Notifier struct {
	sender Sender
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) Notify(ctx context.Context, event *contacts.Event) error {
	if err := n.sender.SendMessage(ctx, event); err != nil {
		return errors.Wrapf(err, "send %s event", event.Type)
	}

	return nil
}

// Auditor writes consumed events to the log.
type Auditor struct{}

func NewAuditor() *Auditor {
	return &Auditor{}
}

func (a *Auditor) Consume(ctx context.Context, data []byte) error {
	var event contacts.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return errors.Wrap(ErrInvalidEvent, err.Error())
	}

	if event.Name == "" {
		return errors.Wrap(ErrInvalidEvent, "empty name")
	}

	switch event.Type {
	case contacts.EventSaved, contacts.EventRenamed, contacts.EventDeleted:
	default:
		return errors.Wrapf(ErrInvalidEvent, "unknown type %q", event.Type)
	}

	zerolog.Ctx(ctx).Info().
		Str("event", string(event.Type)).
		Str("name", event.Name).
		Str("previous_name", event.PreviousName).
		Str("phone", event.Phone).
		Msg("contact changed")

	return nil
}

func (a *Auditor) Shutdown(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Msg("auditor stopped")
	return nil
}
