package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NATS publishes events as JSON on "<subject>.<kind>".
type NATS struct {
	conn    *nats.Conn
	subject string
	log     *logrus.Entry
}

func NewNATS(url, subject string, log *logrus.Logger) (*NATS, error) {
	l := log.WithField("from", "nats")
	conn, err := nats.Connect(url,
		nats.Name("leaguerank"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.WithError(err).Warn("disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			l.WithField("url", c.ConnectedUrl()).Info("reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATS{conn: conn, subject: subject, log: l}, nil
}

func (n *NATS) Subject(kind Kind) string {
	return n.subject + "." + string(kind)
}

func (n *NATS) Publish(_ context.Context, e MatchEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.Subject(e.Kind), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Kind, err)
	}
	n.log.WithField("subject", n.Subject(e.Kind)).Debug("event published")
	return nil
}

func (n *NATS) Close() error {
	return n.conn.Drain()
}
