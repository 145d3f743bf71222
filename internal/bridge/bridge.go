// Package bridge forwards bus events to NATS JetStream so companion devices
// and household automations can follow inventory changes. The bridge is
// opt-in; the app runs fully offline without it.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/manualbox/internal/config"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/logfields"
)

// Forwarded event types. Performance and navigation events stay local.
var forwardedTypes = []string{
	"DataChangeEvent",
	"ErrorEvent",
	"WarrantyExpiring",
	"ConfigReloaded",
}

// envelope is the wire form of a forwarded event.
type envelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Bridge connects the in-process bus to a JetStream stream.
type Bridge struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	bus     *eventbus.Bus
	logger  *slog.Logger
	subject string
	subs    []*eventbus.Subscription
}

// New connects to NATS and ensures the configured stream exists.
func New(cfg config.BridgeConfig, bus *eventbus.Bus, logger *slog.Logger) (*Bridge, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("bridge is disabled")
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("manualbox-bridge"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject + ".>"},
		MaxAge:   30 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Stream, err)
	}

	logger.Info("event bridge connected", "url", cfg.URL, "stream", cfg.Stream, logfields.Subject(cfg.Subject))

	return &Bridge{
		conn:    conn,
		js:      js,
		bus:     bus,
		logger:  logger,
		subject: cfg.Subject,
	}, nil
}

// Start subscribes the bridge to the forwarded event types.
func (b *Bridge) Start() {
	for _, eventType := range forwardedTypes {
		sub := b.bus.Subscribe(eventType, "bridge", b.forward)
		b.subs = append(b.subs, sub)
	}
}

// Stop detaches from the bus and closes the connection. In-flight publishes
// are given a short drain window.
func (b *Bridge) Stop() {
	for _, sub := range b.subs {
		sub.Cancel()
	}
	b.subs = nil
	if err := b.conn.Drain(); err != nil {
		b.logger.Warn("bridge drain failed", logfields.Error(err))
	}
}

func (b *Bridge) forward(e eventbus.Event) {
	data, err := json.Marshal(envelope{
		ID:        e.ID(),
		Type:      e.Type(),
		Timestamp: e.Timestamp(),
		Payload:   e,
	})
	if err != nil {
		b.logger.Error("bridge marshal failed", logfields.EventType(e.Type()), logfields.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subject := b.subject + "." + e.Type()
	if _, err := b.js.Publish(ctx, subject, data); err != nil {
		b.logger.Error("bridge publish failed",
			logfields.EventType(e.Type()), logfields.Subject(subject), logfields.Error(err))
		return
	}
	b.logger.Debug("event forwarded", logfields.EventType(e.Type()), logfields.EventID(e.ID()))
}
