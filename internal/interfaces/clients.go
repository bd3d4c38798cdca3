// Package interfaces defines service contracts for crypto-tracker
package interfaces

import (
	"context"

	"github.com/testserebro/crypto-tracker/internal/models"
)

// CoinGeckoClient fetches market snapshots from the upstream price source.
type CoinGeckoClient interface {
	// GetMarkets returns the market snapshot list, ordered by market cap
	// descending. Rate-limit responses surface as *coingecko.APIError
	// with StatusCode 429.
	GetMarkets(ctx context.Context) ([]models.CryptoSnapshot, error)
}
