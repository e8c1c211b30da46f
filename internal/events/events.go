// Package events publishes domain events to NATS.
package events

import (
	"context"
	"time"

	"finance-manager/internal/logging"
	"finance-manager/internal/metrics"
	"finance-manager/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectBudgetExceeded is the subject budget-exceeded events go to.
const SubjectBudgetExceeded = "finance.budget.exceeded"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher publishes domain events. Publishing is fire and forget.
type Publisher interface {
	PublishBudgetExceeded(ctx context.Context, ev models.BudgetExceeded) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishBudgetExceeded(context.Context, models.BudgetExceeded) error { return nil }

func (Noop) Close() error { return nil }

// NATSPublisher publishes events on a NATS connection.
type NATSPublisher struct {
	nc     *nats.Conn
	logger zerolog.Logger
}

// Connect dials the NATS server at url. The connection reconnects on its own
// and logs disconnects.
func Connect(url, name string, logger zerolog.Logger) (*NATSPublisher, error) {
	logger = logger.With().Str("component", "nats").Logger()
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("reconnected")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

// PublishBudgetExceeded publishes ev as JSON on SubjectBudgetExceeded.
func (p *NATSPublisher) PublishBudgetExceeded(ctx context.Context, ev models.BudgetExceeded) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.nc.Publish(SubjectBudgetExceeded, data)
	record(SubjectBudgetExceeded, err)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str(logging.EVENT, SubjectBudgetExceeded).Msg("event published")
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

func record(subject string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EventsPublished.WithLabelValues(subject, result).Inc()
}
