package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/fx"
	"github.com/ndewijer/portfolio-insights/internal/model"
)

// FxService exposes the exchange-rate cache and keeps a set of base
// currencies warm on a cron schedule.
type FxService struct {
	provider *fx.Provider
	warm     []string
	logger   zerolog.Logger
	cron     *cron.Cron
}

// NewFxService creates a new FxService.
//
// Parameters:
//   - provider: The shared rate cache
//   - warm: Base currencies refreshed by Warm and the refresh job
//   - logger: Receives refresh failures
func NewFxService(provider *fx.Provider, warm []string, logger zerolog.Logger) *FxService {
	return &FxService{
		provider: provider,
		warm:     warm,
		logger:   logger.With().Str("component", "fx").Logger(),
	}
}

// GetRates returns the cached or freshly fetched snapshot for base.
func (s *FxService) GetRates(ctx context.Context, base string) model.FxSnapshot {
	return s.provider.GetRates(ctx, base)
}

// Invalidate drops the cached snapshot for base.
func (s *FxService) Invalidate(base string) {
	s.provider.Invalidate(base)
}

// Warm refreshes every configured base currency.
func (s *FxService) Warm(ctx context.Context) error {
	if len(s.warm) == 0 {
		return nil
	}
	start := time.Now()
	if err := s.provider.Warm(ctx, s.warm...); err != nil {
		return err
	}
	s.logger.Debug().
		Strs("bases", s.warm).
		Dur("took", time.Since(start)).
		Msg("FX cache warmed")
	return nil
}

// StartRefresh schedules Warm with a cron spec such as "@every 12h" or
// "0 6 * * *" and starts the scheduler. An empty spec does nothing.
func (s *FxService) StartRefresh(spec string) error {
	if spec == "" {
		return nil
	}
	if s.cron != nil {
		return fmt.Errorf("fx refresh already started")
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := s.Warm(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Scheduled FX refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid FX refresh schedule %q: %w", spec, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info().Str("schedule", spec).Strs("bases", s.warm).Msg("FX refresh scheduled")
	return nil
}

// Stop stops the refresh scheduler and waits for a running job to finish.
func (s *FxService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
