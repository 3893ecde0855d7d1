package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/oranjParker/mlapi/internal/core"
)

type JetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

type NatsSink struct {
	JS      JetStreamPublisher
	Subject string
}

func NewNatsSink(js JetStreamPublisher, subject string) *NatsSink {
	return &NatsSink{
		JS:      js,
		Subject: subject,
	}
}

func (n *NatsSink) Write(ctx context.Context, item *core.ScrapeNotification) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("nats marshal failed: %w", err)
	}

	if _, err := n.JS.Publish(n.Subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("%w: nats publish to %s: %v", core.ErrSinkWriteFailed, n.Subject, err)
	}
	return nil
}

func (n *NatsSink) Close() error {
	return nil
}
