package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aladdinbruv/docproche-sub000/logger"
)

func TestConsumerProcess(t *testing.T) {
	evt, err := NewEvent(AppointmentCreated, AppointmentPayload{AppointmentID: "a-1"})
	require.NoError(t, err)
	valid, err := json.Marshal(evt)
	require.NoError(t, err)

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		redelivered bool
		want        outcome
	}{
		{"handled", valid, nil, false, ack},
		{"malformed json", []byte("{not json"), nil, false, drop},
		{"missing type", []byte(`{"payload":{}}`), nil, false, drop},
		{"permanent failure", valid, fmt.Errorf("%w: user gone", ErrDrop), false, drop},
		{"first failure", valid, errors.New("smtp down"), false, requeue},
		{"second failure", valid, errors.New("smtp down"), true, drop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Event
			c := &Consumer{
				log: logger.Discard(),
				handler: HandlerFunc(func(ctx context.Context, e Event) error {
					got = e
					return tt.handlerErr
				}),
			}

			assert.Equal(t, tt.want, c.process(context.Background(), tt.body, tt.redelivered))
			if tt.name == "handled" {
				assert.Equal(t, AppointmentCreated, got.Type)
			}
		})
	}
}

func TestNewEventEncodesPayload(t *testing.T) {
	evt, err := NewEvent(PaymentCompleted, PaymentPayload{PaymentID: "p-1", Amount: 50000, Currency: "INR"})
	require.NoError(t, err)

	var p PaymentPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, int64(50000), p.Amount)
	assert.False(t, evt.OccurredAt.IsZero())
}
