package interfaces

import (
	"context"

	"github.com/testserebro/crypto-tracker/internal/models"
)

// MarketService serves cached market snapshots with the stale-then-fallback
// policy. Snapshots never fails with an upstream error: the caller always
// receives some list, possibly stale or the static fallback.
type MarketService interface {
	// Snapshots returns a fresh-enough snapshot list: cache, upstream,
	// stale cache, or the static fallback, in that order of preference.
	Snapshots(ctx context.Context) []models.CryptoSnapshot

	// Snapshot returns the snapshot for one asset id from the same list,
	// or models.ErrNotFound.
	Snapshot(ctx context.Context, id string) (*models.CryptoSnapshot, error)
}

// FavoriteService manages per-user favorites. All operations are scoped to
// the authenticated caller's user id.
type FavoriteService interface {
	// List returns the caller's favorites, newest first.
	List(ctx context.Context, userID uint64) ([]*models.Favorite, error)

	// Add creates a favorite from the submitted fields. Returns a
	// *models.ValidationError when crypto_id is empty and
	// models.ErrConflict when the (user, crypto_id) pair already exists.
	Add(ctx context.Context, userID uint64, input *models.FavoriteInput) (*models.Favorite, error)

	// Remove deletes a favorite by id. Returns models.ErrNotFound when no
	// such favorite exists and models.ErrForbidden when it belongs to a
	// different user.
	Remove(ctx context.Context, userID uint64, favoriteID uint64) error
}
