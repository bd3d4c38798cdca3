// Package internaldb implements the user and favorite stores using
// BadgerHold. Both record types share one embedded database.
package internaldb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/models"
)

// Store implements interfaces.UserStore and interfaces.FavoriteStore.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new store backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("InternalDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- User accounts ---

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.ModifiedAt = now

	if err := s.db.Insert(badgerhold.NextSequence(), user); err != nil {
		if errors.Is(err, badgerhold.ErrUniqueExists) {
			return fmt.Errorf("username '%s' already taken: %w", user.Username, models.ErrConflict)
		}
		return fmt.Errorf("failed to create user '%s': %w", user.Username, err)
	}
	s.logger.Debug().Uint64("user_id", user.ID).Str("username", user.Username).Msg("User created")
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.Get(id, &user); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := s.db.Find(&users, badgerhold.Where("Username").Eq(username).Index("Username")); err != nil {
		return nil, fmt.Errorf("failed to find user '%s': %w", username, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user '%s': %w", username, models.ErrNotFound)
	}
	return &users[0], nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.db.Delete(id, models.User{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	// Cascade: drop the user's favorites
	if err := s.db.DeleteMatching(models.Favorite{}, badgerhold.Where("UserID").Eq(id).Index("UserID")); err != nil {
		return fmt.Errorf("failed to delete favorites for user %d: %w", id, err)
	}
	s.logger.Debug().Uint64("user_id", id).Msg("User and favorites deleted")
	return nil
}

// --- Favorites ---

func (s *Store) CreateFavorite(_ context.Context, fav *models.Favorite) error {
	// One favorite per (user, crypto_id) pair
	existing, err := s.db.Count(models.Favorite{},
		badgerhold.Where("UserID").Eq(fav.UserID).Index("UserID").And("CryptoID").Eq(fav.CryptoID))
	if err != nil {
		return fmt.Errorf("failed to check existing favorite: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("crypto '%s' already in favorites: %w", fav.CryptoID, models.ErrConflict)
	}

	now := time.Now()
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = now
	}
	fav.UpdatedAt = now

	if err := s.db.Insert(badgerhold.NextSequence(), fav); err != nil {
		return fmt.Errorf("failed to create favorite '%s': %w", fav.CryptoID, err)
	}
	s.logger.Debug().Uint64("favorite_id", fav.ID).Uint64("user_id", fav.UserID).Str("crypto_id", fav.CryptoID).Msg("Favorite created")
	return nil
}

func (s *Store) GetFavorite(_ context.Context, id uint64) (*models.Favorite, error) {
	var fav models.Favorite
	if err := s.db.Get(id, &fav); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("favorite %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get favorite %d: %w", id, err)
	}
	return &fav, nil
}

func (s *Store) ListFavoritesByUser(_ context.Context, userID uint64) ([]*models.Favorite, error) {
	var favs []models.Favorite
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("CreatedAt", "ID").Reverse()
	if err := s.db.Find(&favs, query); err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	result := make([]*models.Favorite, len(favs))
	for i := range favs {
		result[i] = &favs[i]
	}
	return result, nil
}

func (s *Store) DeleteFavorite(_ context.Context, id uint64) error {
	if err := s.db.Delete(id, models.Favorite{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("favorite %d: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("failed to delete favorite %d: %w", id, err)
	}
	s.logger.Debug().Uint64("favorite_id", id).Msg("Favorite deleted")
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
