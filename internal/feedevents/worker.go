package feedevents

import (
	"context"
	"encoding/json"
	"log/slog"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"socially/internal/config"
	"socially/internal/core"
)

const (
	consumerName = "feed-events"
	fetchBatch   = 64
)

var eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socially_feed_events_processed_total",
	Help: "The total number of processed interaction events",
}, []string{"operation"})

// Worker consumes the interaction stream and exposes per-operation counters.
// It is the observer side of the invalidation signal; the engine never
// depends on it.
type Worker struct {
	Logger *slog.Logger
	Config *config.Config

	js       jetstream.JetStream
	consumer jetstream.Consumer
}

func (w *Worker) Init(ctx context.Context) error {
	w.Logger = w.Logger.With("component", "feedevents.Worker")

	nc, err := libnats.Connect(w.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	w.js = js

	if w.Config.NATSInit {
		if err := initStream(ctx, js, w.Logger); err != nil {
			return err
		}
	}

	w.consumer, err = js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       consumerName,
		FilterSubject: subjectPrefix + "*",
	})
	return err
}

func (w *Worker) Run(ctx context.Context) error {
	return pips.New[jetstream.Msg, any]().
		Then(apply.Each(w.countEvent)).
		Then(
			apply.Each(func(_ context.Context, msg jetstream.Msg) error {
				return msg.Ack()
			}),
		).
		Run(ctx, w.messages(ctx)).
		Wait(ctx)
}

func (w *Worker) messages(ctx context.Context) <-chan pips.D[jetstream.Msg] {
	ch := make(chan pips.D[jetstream.Msg])

	go func() {
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			batch, err := w.consumer.Fetch(fetchBatch)
			if err != nil {
				w.Logger.Error("failed to fetch messages", "error", err)
				continue
			}

			for msg := range batch.Messages() {
				select {
				case ch <- pips.NewD(msg):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}

func (w *Worker) countEvent(_ context.Context, msg jetstream.Msg) error {
	event := core.InteractionEvent{}
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		return err
	}

	eventsProcessed.WithLabelValues(event.Operation).Inc()
	w.Logger.Debug("feed changed", "operation", event.Operation, "actor", event.ActorID)
	return nil
}

func (w *Worker) HealthCheck(context.Context) error {
	_, err := w.js.Conn().RTT()
	return err
}

func (w *Worker) Shutdown(context.Context) error {
	return w.js.Conn().Drain()
}
