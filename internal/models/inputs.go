package models

// FavoriteInput is the payload for adding a favorite. Market fields are
// optional; absent values are stored as null.
type FavoriteInput struct {
	CryptoID                 string   `json:"crypto_id"`
	Name                     string   `json:"name"`
	Symbol                   string   `json:"symbol"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *int64   `json:"market_cap"`
	PriceChange24h           *float64 `json:"price_change_24h"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	ImageURL                 string   `json:"image_url"`
}

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
