// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultCurrency  = "usd"
	DefaultPerPage   = 100
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// userAgent identifies the client; the free CoinGecko tier rejects requests
// with no User-Agent header.
const userAgent = "crypto-tracker/1.0"

// Client implements the CoinGeckoClient interface
type Client struct {
	baseURL    string
	currency   string
	perPage    int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCurrency sets the quote currency for prices
func WithCurrency(currency string) ClientOption {
	return func(c *Client) {
		c.currency = currency
	}
}

// WithPerPage sets the page size for the markets endpoint
func WithPerPage(perPage int) ClientOption {
	return func(c *Client) {
		c.perPage = perPage
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CoinGecko client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		currency: DefaultCurrency,
		perPage:  DefaultPerPage,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsRateLimited reports whether the error is an HTTP 429 from the API.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetMarkets retrieves the market snapshot list ordered by market cap.
func (c *Client) GetMarkets(ctx context.Context) ([]models.CryptoSnapshot, error) {
	params := url.Values{}
	params.Set("vs_currency", c.currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var coins []marketResponse
	if err := c.get(ctx, "/coins/markets", params, &coins); err != nil {
		return nil, err
	}

	snapshots := make([]models.CryptoSnapshot, len(coins))
	for i, coin := range coins {
		snapshots[i] = coin.toSnapshot()
	}

	c.logger.Debug().Int("coins", len(snapshots)).Msg("CoinGecko markets fetched")

	return snapshots, nil
}

// marketResponse mirrors one element of the /coins/markets response.
// Numeric fields are pointers because the API returns null for assets with
// missing data (e.g. max_supply for bitcoin-like fixed-cap coins is set,
// but total_supply can be null for others).
type marketResponse struct {
	ID                       string     `json:"id"`
	Symbol                   string     `json:"symbol"`
	Name                     string     `json:"name"`
	Image                    string     `json:"image"`
	CurrentPrice             *float64   `json:"current_price"`
	MarketCap                *float64   `json:"market_cap"`
	MarketCapRank            *int       `json:"market_cap_rank"`
	TotalVolume              *float64   `json:"total_volume"`
	High24h                  *float64   `json:"high_24h"`
	Low24h                   *float64   `json:"low_24h"`
	PriceChange24h           *float64   `json:"price_change_24h"`
	PriceChangePercentage24h *float64   `json:"price_change_percentage_24h"`
	CirculatingSupply        *float64   `json:"circulating_supply"`
	TotalSupply              *float64   `json:"total_supply"`
	MaxSupply                *float64   `json:"max_supply"`
	ATH                      *float64   `json:"ath"`
	ATHDate                  *time.Time `json:"ath_date"`
	ATL                      *float64   `json:"atl"`
	ATLDate                  *time.Time `json:"atl_date"`
	LastUpdated              *time.Time `json:"last_updated"`
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (m marketResponse) toSnapshot() models.CryptoSnapshot {
	rank := 0
	if m.MarketCapRank != nil {
		rank = *m.MarketCapRank
	}
	return models.CryptoSnapshot{
		ID:                       m.ID,
		Symbol:                   m.Symbol,
		Name:                     m.Name,
		Image:                    m.Image,
		CurrentPrice:             deref(m.CurrentPrice),
		MarketCap:                int64(deref(m.MarketCap)),
		MarketCapRank:            rank,
		TotalVolume:              deref(m.TotalVolume),
		High24h:                  deref(m.High24h),
		Low24h:                   deref(m.Low24h),
		PriceChange24h:           deref(m.PriceChange24h),
		PriceChangePercentage24h: deref(m.PriceChangePercentage24h),
		CirculatingSupply:        deref(m.CirculatingSupply),
		TotalSupply:              m.TotalSupply,
		MaxSupply:                m.MaxSupply,
		ATH:                      deref(m.ATH),
		ATHDate:                  derefTime(m.ATHDate),
		ATL:                      deref(m.ATL),
		ATLDate:                  derefTime(m.ATLDate),
		LastUpdated:              derefTime(m.LastUpdated),
	}
}

// Ensure Client implements CoinGeckoClient
var _ interfaces.CoinGeckoClient = (*Client)(nil)
