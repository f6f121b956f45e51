// Package events broadcasts stay catalog changes to NATS subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes each StayEvent as JSON on "<prefix>.<type>",
// e.g. "stays.stay-added".
type NATSPublisher struct {
	conn   conn
	prefix string
}

// NewNATSPublisher returns a publisher writing to c under subject prefix.
func NewNATSPublisher(c conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: c, prefix: prefix}
}

// Publish encodes evt and hands it to the connection. Delivery is at most
// once; ctx is accepted for interface symmetry and checked before sending.
func (p *NATSPublisher) Publish(ctx context.Context, evt domain.StayEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events.NATSPublisher.Publish: marshal: %w", err)
	}
	if err := p.conn.Publish(Subject(p.prefix, evt.Type), data); err != nil {
		return fmt.Errorf("events.NATSPublisher.Publish: %w", err)
	}
	return nil
}

// Subject returns the subject an event type is published on.
func Subject(prefix string, t domain.StayEventType) string {
	return prefix + "." + string(t)
}

// Connect dials the NATS server at url, reconnecting forever on drops.
func Connect(url string, log *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("airbxb-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error("nats error", "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("events.Connect: %w", err)
	}
	return nc, nil
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

// Publish implements the publisher interface and always succeeds.
func (Noop) Publish(context.Context, domain.StayEvent) error { return nil }
