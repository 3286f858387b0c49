package events_test

import (
	"bytes"
	"context"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/soldatov-s/go-contacts/domains/contacts/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	event := &contacts.Event{Type: contacts.EventRenamed, Name: "Janet", PreviousName: "Jane", Phone: "(555) 123-4567"}
	errBroker := errors.New("channel closed")

	sender := NewMockSender(ctrl)
	gomock.InOrder(
		sender.EXPECT().SendMessage(ctx, event).Return(nil),
		sender.EXPECT().SendMessage(ctx, event).Return(errBroker),
	)

	n := events.NewNotifier(sender)
	require.NoError(t, n.Notify(ctx, event))
	assert.ErrorIs(t, n.Notify(ctx, event), errBroker)
}

func TestAuditor_Consume(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "saved", data: `{"type":"saved","name":"Jane","phone":"(555) 123-4567"}`},
		{name: "deleted", data: `{"type":"deleted","name":"Jane"}`},
		{name: "not json", data: `saved`, wantErr: true},
		{name: "empty name", data: `{"type":"saved"}`, wantErr: true},
		{name: "unknown type", data: `{"type":"archived","name":"Jane"}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			ctx := logger.WithContext(context.Background())

			err := events.NewAuditor().Consume(ctx, []byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, events.ErrInvalidEvent)
				assert.Empty(t, buf.String())
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), `"name":"Jane"`)
			assert.Contains(t, buf.String(), `"message":"contact changed"`)
		})
	}
}
