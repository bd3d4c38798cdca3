package app

import (
	"context"
	"os"
	"time"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/services/market"
)

// warmCache pre-fetches market snapshots on startup so the first request is fast.
func warmCache(ctx context.Context, marketService *market.Service, logger *common.Logger) {
	if os.Getenv("CRYPTOD_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via CRYPTOD_WARM_CACHE=off")
		return
	}

	start := time.Now()
	logger.Info().Msg("Warm cache: starting")

	if err := marketService.Prime(ctx); err != nil {
		// Server still works: requests fall back to stale data or the static list
		logger.Warn().Err(err).Msg("Warm cache: snapshot fetch failed")
		return
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Warm cache: complete")
}
