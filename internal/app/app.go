// Package app wires configuration, storage, clients, and services into a
// single application core shared by cmd/cryptod and the tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testserebro/crypto-tracker/internal/clients/coingecko"
	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/services/favorites"
	"github.com/testserebro/crypto-tracker/internal/services/market"
	"github.com/testserebro/crypto-tracker/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	CoinGeckoClient interfaces.CoinGeckoClient
	MarketService   interfaces.MarketService
	FavoriteService interfaces.FavoriteService
	StartupTime     time.Time

	marketService   *market.Service
	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Check provided path, CRYPTOD_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("CRYPTOD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "cryptod.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/cryptod.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	geckoClient := coingecko.NewClient(
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithCurrency(config.Clients.CoinGecko.Currency),
		coingecko.WithPerPage(config.Clients.CoinGecko.PerPage),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
		coingecko.WithLogger(logger),
	)

	marketService := market.NewService(geckoClient, logger,
		market.WithTTL(config.Market.GetCacheTTL()),
	)
	favoriteService := favorites.NewService(storageManager, logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		CoinGeckoClient: geckoClient,
		MarketService:   marketService,
		FavoriteService: favoriteService,
		StartupTime:     startupStart,
		marketService:   marketService,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.marketService, a.Logger)
	}()
}
