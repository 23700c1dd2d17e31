package fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// DefaultTTL is how long a snapshot, including a fallback one, is served from cache.
const DefaultTTL = 12 * time.Hour

// Provider serves exchange-rate snapshots per base currency from a
// time-bounded cache, fetching through a Client on a miss.
//
// A failed fetch is cached as an identity snapshot ({base: 1}) for the full
// TTL, so callers always receive a usable snapshot and conversions degrade to
// face value until the entry expires and a new fetch is attempted.
type Provider struct {
	client Client
	store  *cache.Cache
	group  singleflight.Group
	clock  func() time.Time
	ttl    time.Duration
	logger zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock injects the time source used to judge cache expiry.
func WithClock(clock func() time.Time) Option {
	return func(p *Provider) { p.clock = clock }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// NewProvider creates a Provider backed by client.
func NewProvider(client Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		clock:  time.Now,
		ttl:    DefaultTTL,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	// Expiry is judged against the injected clock, so go-cache never expires
	// entries on its own and runs no janitor.
	p.store = cache.New(cache.NoExpiration, 0)
	return p
}

// GetRates returns the snapshot for base, fetching it when the cached entry is
// missing or older than the TTL. Concurrent misses for the same base share a
// single fetch. The fetch is detached from ctx cancellation: once started it
// runs to completion or failure.
func (p *Provider) GetRates(ctx context.Context, base string) model.FxSnapshot {
	key := normalizeCode(base)
	if key == "" {
		return model.IdentitySnapshot(key, p.clock())
	}

	if snapshot, ok := p.cached(key); ok {
		return snapshot
	}

	v, _, _ := p.group.Do(key, func() (any, error) {
		if snapshot, ok := p.cached(key); ok {
			return snapshot, nil
		}
		snapshot := p.fetch(context.WithoutCancel(ctx), key)
		p.store.Set(key, snapshot, cache.NoExpiration)
		return snapshot, nil
	})

	return v.(model.FxSnapshot)
}

// Invalidate drops the cached snapshot for base.
func (p *Provider) Invalidate(base string) {
	p.store.Delete(normalizeCode(base))
}

// InvalidateAll drops every cached snapshot.
func (p *Provider) InvalidateAll() {
	p.store.Flush()
}

// Warm refreshes the snapshots of several base currencies concurrently.
// It returns an error naming a base that could only be served by the
// identity fallback; the fallback is cached regardless.
func (p *Provider) Warm(ctx context.Context, bases ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, base := range bases {
		g.Go(func() error {
			p.Invalidate(base)
			snapshot := p.GetRates(gctx, base)
			if snapshot.Fallback {
				return fmt.Errorf("rates for %s unavailable, serving identity fallback", snapshot.Base)
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Provider) cached(key string) (model.FxSnapshot, bool) {
	item, ok := p.store.Get(key)
	if !ok {
		return model.FxSnapshot{}, false
	}
	snapshot := item.(model.FxSnapshot)
	if p.clock().Sub(snapshot.FetchedAt) >= p.ttl {
		return model.FxSnapshot{}, false
	}
	return snapshot, true
}

func (p *Provider) fetch(ctx context.Context, base string) model.FxSnapshot {
	now := p.clock()

	snapshot, err := p.client.FetchRates(ctx, base)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("base", base).
			Dur("ttl", p.ttl).
			Msg("FX fetch failed, caching identity rates")
		return model.IdentitySnapshot(base, now)
	}

	if snapshot.Rates == nil {
		snapshot.Rates = make(map[string]float64, 1)
	}
	snapshot.Base = base
	snapshot.Rates[base] = 1
	snapshot.FetchedAt = now
	snapshot.Fallback = false

	p.logger.Debug().
		Str("base", base).
		Str("date", snapshot.Date).
		Int("currencies", len(snapshot.Rates)).
		Msg("FX rates fetched")
	return snapshot
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
