package models

import "time"

// Favorite is a per-user saved cryptocurrency. The market fields are a
// denormalized copy of whatever the client submitted at add time; they are
// nullable and never refreshed afterwards.
type Favorite struct {
	ID       uint64 `json:"id" badgerhold:"key"`
	UserID   uint64 `json:"user" badgerhold:"index"`
	CryptoID string `json:"crypto_id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`

	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *int64   `json:"market_cap"`
	PriceChange24h           *float64 `json:"price_change_24h"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	ImageURL                 string   `json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
