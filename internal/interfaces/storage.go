package interfaces

import (
	"context"

	"github.com/testserebro/crypto-tracker/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	UserStore() UserStore
	FavoriteStore() FavoriteStore

	// Lifecycle
	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	// CreateUser inserts a new user and assigns its numeric id.
	// Returns models.ErrConflict when the username is already taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// FavoriteStore manages per-user favorite records.
type FavoriteStore interface {
	// CreateFavorite inserts a new favorite and assigns its numeric id.
	// Returns models.ErrConflict when the (user, crypto_id) pair exists.
	CreateFavorite(ctx context.Context, fav *models.Favorite) error
	GetFavorite(ctx context.Context, id uint64) (*models.Favorite, error)
	// ListFavoritesByUser returns the user's favorites newest first.
	ListFavoritesByUser(ctx context.Context, userID uint64) ([]*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id uint64) error
}
