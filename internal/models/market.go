package models

import "time"

// CryptoSnapshot is a point-in-time copy of market data for one asset, as
// returned by the CoinGecko markets endpoint. Snapshots are immutable once
// returned; the next fetch supersedes them wholesale.
type CryptoSnapshot struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	CurrentPrice             float64   `json:"current_price"`
	MarketCap                int64     `json:"market_cap"`
	MarketCapRank            int       `json:"market_cap_rank"`
	TotalVolume              float64   `json:"total_volume"`
	High24h                  float64   `json:"high_24h"`
	Low24h                   float64   `json:"low_24h"`
	PriceChange24h           float64   `json:"price_change_24h"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	CirculatingSupply        float64   `json:"circulating_supply"`
	TotalSupply              *float64  `json:"total_supply"`
	MaxSupply                *float64  `json:"max_supply"`
	ATH                      float64   `json:"ath"`
	ATHDate                  time.Time `json:"ath_date"`
	ATL                      float64   `json:"atl"`
	ATLDate                  time.Time `json:"atl_date"`
	LastUpdated              time.Time `json:"last_updated"`
}
