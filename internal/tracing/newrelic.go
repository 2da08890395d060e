// Package tracing wraps the New Relic agent. A tracer built without a license
// key is disabled and every call is a no-op.
package tracing

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
)

// Tracer defines the interface for tracing
type Tracer interface {
	// Application is nil when tracing is disabled
	Application() *newrelic.Application
	// StartTransaction begins a background transaction and stores it in the returned context
	StartTransaction(ctx context.Context, name string) (context.Context, func())
	// StartSegment times a unit of work inside the transaction carried by ctx
	StartSegment(ctx context.Context, name string) func()
	RecordError(ctx context.Context, err error)
	AddAttribute(ctx context.Context, key string, value interface{})
	Close()
}

// NewRelicTracer implements Tracer using New Relic
type NewRelicTracer struct {
	app *newrelic.Application
}

// NewTracer creates a new tracer
func NewTracer(cfg config.TracingConfig) (*NewRelicTracer, error) {
	if cfg.LicenseKey == "" {
		log.Warn().Msg("New Relic license key not provided, tracing will be disabled")
		return &NewRelicTracer{}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(cfg.DistribTracing),
		newrelic.ConfigAppLogForwardingEnabled(cfg.LogEnabled),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize New Relic")
	}
	return &NewRelicTracer{app: app}, nil
}

// Disabled returns a tracer that records nothing
func Disabled() *NewRelicTracer {
	return &NewRelicTracer{}
}

// Application returns the agent application
func (t *NewRelicTracer) Application() *newrelic.Application {
	return t.app
}

// StartTransaction begins a transaction unless ctx already carries one
func (t *NewRelicTracer) StartTransaction(ctx context.Context, name string) (context.Context, func()) {
	if t.app == nil || newrelic.FromContext(ctx) != nil {
		return ctx, func() {}
	}
	txn := t.app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}

// StartSegment starts a segment in the transaction carried by ctx
func (t *NewRelicTracer) StartSegment(ctx context.Context, name string) func() {
	txn := newrelic.FromContext(ctx)
	if t.app == nil || txn == nil {
		return func() {}
	}
	seg := txn.StartSegment(name)
	return seg.End
}

// RecordError notices err on the transaction carried by ctx
func (t *NewRelicTracer) RecordError(ctx context.Context, err error) {
	if txn := newrelic.FromContext(ctx); t.app != nil && txn != nil && err != nil {
		txn.NoticeError(err)
	}
}

// AddAttribute adds an attribute to the transaction carried by ctx
func (t *NewRelicTracer) AddAttribute(ctx context.Context, key string, value interface{}) {
	if txn := newrelic.FromContext(ctx); t.app != nil && txn != nil {
		txn.AddAttribute(key, value)
	}
}

// Close flushes pending data
func (t *NewRelicTracer) Close() {
	if t.app == nil {
		return
	}
	t.app.Shutdown(10 * time.Second)
	log.Info().Msg("New Relic tracer shutdown")
}
