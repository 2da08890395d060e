package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
)

// publish sends an event after a successful write. A broker failure never
// fails the write that triggered it.
func publish(ctx context.Context, p messaging.Publisher, m *metrics.Metrics, eventType string, payload interface{}) {
	if err := p.Publish(ctx, messaging.NewEvent(eventType, payload)); err != nil {
		m.IncrementCounter(metrics.EventsFailed)
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to publish event")
		return
	}
	m.IncrementCounter(metrics.EventsPublished)
}
