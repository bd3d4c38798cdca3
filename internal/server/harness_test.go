package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/testserebro/crypto-tracker/internal/app"
	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/models"
	"github.com/testserebro/crypto-tracker/internal/services/favorites"
	"github.com/testserebro/crypto-tracker/internal/services/market"
	"github.com/testserebro/crypto-tracker/internal/storage"
)

// stubGecko is an in-memory CoinGecko client for handler tests.
type stubGecko struct {
	snapshots []models.CryptoSnapshot
	err       error
}

func (s *stubGecko) GetMarkets(_ context.Context) ([]models.CryptoSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshots, nil
}

var _ interfaces.CoinGeckoClient = (*stubGecko)(nil)

func marketFixtures() []models.CryptoSnapshot {
	return []models.CryptoSnapshot{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 67000, MarketCap: 1300000000000, MarketCapRank: 1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3500, MarketCap: 420000000000, MarketCapRank: 2},
	}
}

// newTestServer creates a server with real storage and a stubbed upstream,
// wrapped in the full middleware stack.
func newTestServer(t *testing.T, gecko interfaces.CoinGeckoClient) (*Server, http.Handler) {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Auth.JWTSecret = "test-secret"

	mgr, err := storage.NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	if gecko == nil {
		gecko = &stubGecko{snapshots: marketFixtures()}
	}

	a := &app.App{
		Config:          cfg,
		Logger:          logger,
		Storage:         mgr,
		CoinGeckoClient: gecko,
		MarketService:   market.NewService(gecko, logger),
		FavoriteService: favorites.NewService(mgr, logger),
	}
	srv := NewServer(a)
	return srv, srv.Handler()
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

func doRequest(handler http.Handler, method, path, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// registerTestUser registers a user through the API.
func registerTestUser(t *testing.T, handler http.Handler, username string) {
	t.Helper()
	rec := doRequest(handler, http.MethodPost, "/api/auth/register/", "", jsonBody(t, map[string]string{
		"username":   username,
		"email":      username + "@example.com",
		"password":   "correct-horse-battery",
		"password2":  "correct-horse-battery",
		"first_name": "Test",
		"last_name":  "User",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("registerTestUser: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

// loginTestUser logs in and returns the access and refresh tokens.
func loginTestUser(t *testing.T, handler http.Handler, username string) (access, refresh string) {
	t.Helper()
	rec := doRequest(handler, http.MethodPost, "/api/auth/login/", "", jsonBody(t, map[string]string{
		"username": username,
		"password": "correct-horse-battery",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("loginTestUser: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("loginTestUser: decode: %v", err)
	}
	return resp.Access, resp.Refresh
}
