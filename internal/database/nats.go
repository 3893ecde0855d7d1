package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const ScrapeEventsStream = "SCRAPE_EVENTS"

type NatsConn struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

func NewNatsConnection(url string) (*NatsConn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url,
		nats.Name("mlapi"),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	return &NatsConn{
		Conn: nc,
		JS:   js,
	}, nil
}

// EnsureStream creates the stream that captures scrape notifications on subject
// if it does not exist yet.
func (n *NatsConn) EnsureStream(subject string) error {
	_, err := n.JS.StreamInfo(ScrapeEventsStream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream lookup failed: %w", err)
	}

	_, err = n.JS.AddStream(&nats.StreamConfig{
		Name:      ScrapeEventsStream,
		Subjects:  []string{subject},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Discard:   nats.DiscardOld,
	})
	if err != nil {
		return fmt.Errorf("stream setup failed: %w", err)
	}
	return nil
}

func (n *NatsConn) Close() {
	if n.Conn != nil {
		n.Conn.Close()
	}
}
