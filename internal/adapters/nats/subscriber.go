package natsadapter

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeCatalogUpdates invokes handler for every catalog-updated event.
// Malformed envelopes and handler failures are redelivered up to three times.
func (s *Subscriber) SubscribeCatalogUpdates(ctx context.Context, handler func(ctx context.Context) error) error {
	sub, err := s.js.Subscribe(SubjectCatalogUpdated, func(msg *nats.Msg) {
		if _, err := DecodeEvent(msg.Data); err != nil {
			_ = msg.Term()
			return
		}
		if err := handler(ctx); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
