// Package feedevents carries the "feed data changed" signal between the
// engine and whatever invalidates the rendering layer's caches. The signal
// rides NATS JetStream; the engine never waits on consumers.
package feedevents

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"socially/internal/config"
	"socially/internal/core"
)

const (
	streamName    = "socially"
	subjectPrefix = "socially.feed."
)

type Publisher struct {
	Logger *slog.Logger
	Config *config.Config

	js jetstream.JetStream
}

func (p *Publisher) Init(ctx context.Context) error {
	p.Logger = p.Logger.With("component", "feedevents.Publisher")

	nc, err := libnats.Connect(p.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	p.js = js

	if p.Config.NATSInit {
		if err := initStream(ctx, js, p.Logger); err != nil {
			return err
		}
	}

	return nil
}

// Publish emits the interaction event, deduplicated by event ID so a
// redelivered publish cannot double-count an interaction downstream.
func (p *Publisher) Publish(ctx context.Context, event core.InteractionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &libnats.Msg{
		Subject: subjectPrefix + event.Operation,
		Data:    payload,
		Header: libnats.Header{
			libnats.MsgIdHdr: []string{event.ID},
		},
	}

	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return err
	}

	p.Logger.Debug("published interaction event", "id", event.ID, "operation", event.Operation)
	return nil
}

func (p *Publisher) HealthCheck(context.Context) error {
	_, err := p.js.Conn().RTT()
	return err
}

func (p *Publisher) Shutdown(context.Context) error {
	return p.js.Conn().Drain()
}

func initStream(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	logger.Info("Initializing NATS")

	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + "*"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return err
	}

	logger.Info("Stream created or updated", "name", streamName)
	return nil
}
