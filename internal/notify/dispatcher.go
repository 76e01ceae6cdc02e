package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"job-tracker/internal/workflow"
	"job-tracker/internal/ws"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var ErrDispatchFailed = errors.New("notify: dispatch failed")

// Transport delivers a typed payload to every live member of a channel.
type Transport interface {
	SendToGroup(channel, msgType string, payload []byte) error
}

// Dispatcher turns committed workflow events into channel messages. Delivery
// is best effort and at most once: failures are counted and logged, never
// retried, never reported back to the mutation.
type Dispatcher struct {
	transport Transport
	routes    map[workflow.EventKind]Route
	logger    logrus.FieldLogger

	sent   metric.Int64Counter
	failed metric.Int64Counter
}

type Option func(*Dispatcher)

func WithRoutes(routes map[workflow.EventKind]Route) Option {
	return func(d *Dispatcher) {
		if routes != nil {
			d.routes = routes
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher builds a dispatcher. A nil meter records nothing.
func NewDispatcher(transport Transport, meter metric.Meter, opts ...Option) *Dispatcher {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("notify")
	}
	// Instrument errors still yield usable noop instruments.
	sent, _ := meter.Int64Counter(
		"notify.messages.sent",
		metric.WithDescription("Messages handed to the realtime transport"),
		metric.WithUnit("{message}"),
	)
	failed, _ := meter.Int64Counter(
		"notify.messages.failed",
		metric.WithDescription("Messages the realtime transport could not deliver"),
		metric.WithUnit("{message}"),
	)

	silent := logrus.New()
	silent.Out = io.Discard
	d := &Dispatcher{
		transport: transport,
		routes:    Routes,
		logger:    silent,
		sent:      sent,
		failed:    failed,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish implements workflow.EventSink.
func (d *Dispatcher) Publish(ctx context.Context, evt workflow.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{"event": evt.Kind, "panic": r}).Error("notification dispatch panicked")
		}
	}()

	if err := d.Dispatch(ctx, evt); err != nil {
		d.logger.WithError(err).WithField("event", evt.Kind).Warn("notification dispatch failed")
	}
}

// Dispatch routes evt and sends one message per target channel. The returned
// error wraps ErrDispatchFailed and lists every channel that failed.
func (d *Dispatcher) Dispatch(ctx context.Context, evt workflow.Event) error {
	route, ok := d.routes[evt.Kind]
	if !ok {
		return nil
	}
	channels := Channels(route, evt)
	if len(channels) == 0 {
		return nil
	}

	payload, err := json.Marshal(NewMessage(route.Type, evt))
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrDispatchFailed, route.Type, err)
	}

	var errs []error
	for _, channel := range channels {
		attrs := metric.WithAttributes(
			attribute.String("type", route.Type),
			attribute.String("channel_kind", channelKind(channel)),
		)
		if err := d.transport.SendToGroup(channel, route.Type, payload); err != nil {
			d.failed.Add(ctx, 1, attrs)
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
			continue
		}
		d.sent.Add(ctx, 1, attrs)
		d.logger.WithFields(logrus.Fields{"type": route.Type, "channel": channel}).Debug("notification sent")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, errors.Join(errs...))
	}
	return nil
}

func channelKind(channel string) string {
	kind, _, err := ws.ParseChannel(channel)
	if err != nil {
		return "invalid"
	}
	return kind
}
