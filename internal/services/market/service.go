// Package market serves CoinGecko market snapshots through an in-process
// cache with a stale-then-fallback policy: fresh cache, then upstream,
// then stale cache, then a static fallback list.
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/models"
)

// Compile-time interface check
var _ interfaces.MarketService = (*Service)(nil)

// Service implements MarketService
type Service struct {
	client interfaces.CoinGeckoClient
	logger *common.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	snapshots []models.CryptoSnapshot
	fetchedAt time.Time
}

// Option configures the service.
type Option func(*Service)

// WithTTL overrides the cache time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new market service.
func NewService(client interfaces.CoinGeckoClient, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		client: client,
		logger: logger,
		ttl:    common.FreshnessSnapshots,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshots returns the current market snapshot list. The cache is served
// while fresh; one upstream call refreshes it when expired. Upstream
// failures fall back to the stale cache, then to the static list.
func (s *Service) Snapshots(ctx context.Context) []models.CryptoSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots != nil && common.IsFreshAt(s.fetchedAt, s.ttl, s.now()) {
		return s.snapshots
	}

	fetched, err := s.client.GetMarkets(ctx)
	if err == nil {
		s.snapshots = fetched
		s.fetchedAt = s.now()
		s.logger.Debug().Int("count", len(fetched)).Msg("Market snapshots refreshed")
		return s.snapshots
	}

	if s.snapshots != nil {
		s.logger.Warn().Err(err).
			Time("fetched_at", s.fetchedAt).
			Msg("Upstream fetch failed, serving stale snapshots")
		return s.snapshots
	}

	s.logger.Warn().Err(err).Msg("Upstream fetch failed with empty cache, serving fallback")
	return fallbackSnapshots()
}

// Snapshot returns the snapshot for one asset id.
func (s *Service) Snapshot(ctx context.Context, id string) (*models.CryptoSnapshot, error) {
	for _, snap := range s.Snapshots(ctx) {
		if snap.ID == id {
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("crypto '%s': %w", id, models.ErrNotFound)
}

// Prime fetches snapshots once to warm the cache. Errors are returned so
// the caller can log them; the service still works uncached.
func (s *Service) Prime(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fetched, err := s.client.GetMarkets(ctx)
	if err != nil {
		return fmt.Errorf("failed to prime snapshot cache: %w", err)
	}
	s.snapshots = fetched
	s.fetchedAt = s.now()
	s.logger.Info().Int("count", len(fetched)).Msg("Snapshot cache primed")
	return nil
}

func fallbackSnapshots() []models.CryptoSnapshot {
	now := time.Now().UTC()
	return []models.CryptoSnapshot{
		{
			ID:            "bitcoin",
			Symbol:        "btc",
			Name:          "Bitcoin",
			CurrentPrice:  45000,
			MarketCap:     850000000000,
			MarketCapRank: 1,
			LastUpdated:   now,
		},
		{
			ID:            "ethereum",
			Symbol:        "eth",
			Name:          "Ethereum",
			CurrentPrice:  3000,
			MarketCap:     350000000000,
			MarketCapRank: 2,
			LastUpdated:   now,
		},
	}
}
