package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/models"
	"github.com/testserebro/crypto-tracker/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()
	logger := common.NewSilentLogger()
	mgr, err := storage.NewManager(logger, config)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return NewService(mgr, logger)
}

func bitcoinInput() *models.FavoriteInput {
	price := 67000.0
	mcap := int64(1300000000000)
	return &models.FavoriteInput{
		CryptoID:     "bitcoin",
		Name:         "Bitcoin",
		Symbol:       "btc",
		CurrentPrice: &price,
		MarketCap:    &mcap,
		ImageURL:     "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
	}
}

func TestAddAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fav, err := svc.Add(ctx, 1, bitcoinInput())
	require.NoError(t, err)
	assert.NotZero(t, fav.ID)
	assert.Equal(t, uint64(1), fav.UserID)
	assert.Equal(t, "bitcoin", fav.CryptoID)
	require.NotNil(t, fav.CurrentPrice)
	assert.Equal(t, 67000.0, *fav.CurrentPrice)
	assert.False(t, fav.CreatedAt.IsZero())

	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, fav.ID, favs[0].ID)
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Add(context.Background(), 1, &models.FavoriteInput{})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "crypto_id")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "symbol")

	// Whitespace-only values are rejected too
	_, err = svc.Add(context.Background(), 1, &models.FavoriteInput{CryptoID: "  ", Name: "Bitcoin", Symbol: "btc"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "crypto_id")
}

func TestAddDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, bitcoinInput())
	require.NoError(t, err)

	_, err = svc.Add(ctx, 1, bitcoinInput())
	assert.ErrorIs(t, err, models.ErrConflict)

	// A different user can favorite the same coin
	_, err = svc.Add(ctx, 2, bitcoinInput())
	assert.NoError(t, err)
}

func TestListScopedToUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, bitcoinInput())
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, &models.FavoriteInput{CryptoID: "ethereum", Name: "Ethereum", Symbol: "eth"})
	require.NoError(t, err)

	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "bitcoin", favs[0].CryptoID)

	favs, err = svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fav, err := svc.Add(ctx, 1, bitcoinInput())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, fav.ID))

	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, favs)

	// Already gone
	assert.ErrorIs(t, svc.Remove(ctx, 1, fav.ID), models.ErrNotFound)
}

func TestRemoveOtherUsersFavorite(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fav, err := svc.Add(ctx, 1, bitcoinInput())
	require.NoError(t, err)

	err = svc.Remove(ctx, 2, fav.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// Still present for the owner
	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}
