// Package sentry wraps the error-tracking client so callers depend on a
// small surface that no-ops when no DSN is configured.
package sentry

import (
	"time"

	"billing-export/internal/config"
	"billing-export/internal/logger"

	"github.com/getsentry/sentry-go"
)

type Service struct {
	enabled bool
	log     *logger.Logger
}

// NewService initializes the Sentry client. A missing DSN disables
// reporting without failing startup.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	svc := &Service{log: log}
	if cfg.Sentry.DSN == "" {
		log.Infow("sentry disabled, no DSN configured")
		return svc
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
	})
	if err != nil {
		log.Errorw("failed to initialize sentry", "error", err)
		return svc
	}

	svc.enabled = true
	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return svc
}

// CaptureException reports an error to the tracker.
func (s *Service) CaptureException(err error) {
	if !s.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush drains pending events before shutdown.
func (s *Service) Flush() {
	if s.enabled {
		sentry.Flush(2 * time.Second)
	}
}
