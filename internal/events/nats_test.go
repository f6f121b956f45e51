package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/internal/events"
)

type published struct {
	subject string
	data    []byte
}

// fakeConn records every Publish call and returns err.
type fakeConn struct {
	sent []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.sent = append(f.sent, published{subject: subject, data: data})
	return f.err
}

func TestNATSPublisher_Publish_subjectAndPayload(t *testing.T) {
	c := &fakeConn{}
	p := events.NewNATSPublisher(c, "stays")

	evt := domain.StayEvent{
		Type:   domain.StayAdded,
		StayID: "65f0aa",
		Data:   domain.Stay{ID: "65f0aa", Name: "Loft"},
	}
	require.NoError(t, p.Publish(context.Background(), evt))

	require.Len(t, c.sent, 1)
	assert.Equal(t, "stays.stay-added", c.sent[0].subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(c.sent[0].data, &got))
	assert.Equal(t, "stay-added", got["type"])
	assert.Equal(t, "65f0aa", got["stayId"])
	assert.Equal(t, "Loft", got["data"].(map[string]any)["name"])
}

func TestNATSPublisher_Publish_connError(t *testing.T) {
	p := events.NewNATSPublisher(&fakeConn{err: errors.New("nats: connection closed")}, "stays")

	err := p.Publish(context.Background(), domain.StayEvent{Type: domain.StayRemoved, StayID: "x"})

	assert.ErrorContains(t, err, "connection closed")
}

func TestNATSPublisher_Publish_cancelledContext(t *testing.T) {
	c := &fakeConn{}
	p := events.NewNATSPublisher(c, "stays")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, domain.StayEvent{Type: domain.StayUpdated})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.sent)
}

func TestNoop_Publish(t *testing.T) {
	assert.NoError(t, events.Noop{}.Publish(context.Background(), domain.StayEvent{}))
}
