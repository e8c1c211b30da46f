package notifications

import (
	"context"
	"errors"
	"time"

	"finance-manager/internal/logging"
	"finance-manager/internal/metrics"
	"finance-manager/internal/models"

	"github.com/rs/zerolog"
)

// Notifier renders notices and hands them to a Mailer. Delivery is best
// effort: failures are logged, counted and recorded but never returned.
type Notifier struct {
	mailer Mailer
	log    *Log
	to     string
	logger zerolog.Logger
}

// NewNotifier creates a Notifier. A non-empty to overrides the recipient of
// every notice; log may be nil.
func NewNotifier(mailer Mailer, log *Log, to string, logger zerolog.Logger) *Notifier {
	return &Notifier{mailer: mailer, log: log, to: to, logger: logger}
}

// Notify renders ev, dispatches it and returns the rendered text.
func (n *Notifier) Notify(ctx context.Context, ev models.BudgetExceeded) string {
	text := Render(ev)
	logger := n.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = *l
	}

	rec := &models.Notification{Event: ev, Text: text, SentAt: time.Now().UTC()}
	if err := n.dispatch(ctx, ev, text); err != nil {
		rec.Error = err.Error()
		metrics.Notifications.WithLabelValues("failed").Inc()
		logger.Warn().Err(err).Str(logging.EVENT, "budget_exceeded").Msg("notification not delivered")
	} else {
		rec.Delivered = true
		metrics.Notifications.WithLabelValues("delivered").Inc()
	}

	if n.log != nil {
		if err := n.log.Append(rec); err != nil {
			logger.Error().Err(err).Msg("record notification")
		}
	}
	return text
}

// History returns the recorded notifications for email.
func (n *Notifier) History(email string) ([]models.Notification, error) {
	if n.log == nil {
		return []models.Notification{}, nil
	}
	return n.log.List(email)
}

func (n *Notifier) dispatch(ctx context.Context, ev models.BudgetExceeded, text string) error {
	to := n.to
	if to == "" {
		to = ev.Email
	}
	if to == "" {
		return errors.New("no recipient")
	}
	return n.mailer.Send(ctx, to, Subject, text)
}
