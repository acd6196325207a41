package event

import (
	"context"
	"encoding/json"
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/nats-io/nats.go"
)

// Nats publishes events to <subject>.<event type>
type Nats struct {
	conn    *nats.Conn
	subject string
}

// NewNats connect to url
func NewNats(url, subject string) (*Nats, error) {
	conn, err := nats.Connect(url, nats.Name("lending-events"))
	if err != nil {
		return nil, err
	}

	return &Nats{conn: conn, subject: subject}, nil
}

var _ core.INotifier = (*Nats)(nil)

func (n *Nats) Notify(ctx context.Context, event *core.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", n.subject, event.Type)
	if err := n.conn.Publish(subject, data); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("nats.Publish", subject)
		return err
	}

	return nil
}

// Close drain and close the connection
func (n *Nats) Close() error {
	return n.conn.Drain()
}
