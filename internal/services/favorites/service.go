// Package favorites provides per-user favorite crypto management services
package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/models"
)

// Compile-time interface check
var _ interfaces.FavoriteService = (*Service)(nil)

// Service implements FavoriteService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new favorites service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID uint64) ([]*models.Favorite, error) {
	favs, err := s.storage.FavoriteStore().ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

// Add creates a favorite for the user from the submitted fields.
func (s *Service) Add(ctx context.Context, userID uint64, input *models.FavoriteInput) (*models.Favorite, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	fav := &models.Favorite{
		UserID:                   userID,
		CryptoID:                 strings.TrimSpace(input.CryptoID),
		Name:                     strings.TrimSpace(input.Name),
		Symbol:                   strings.TrimSpace(input.Symbol),
		CurrentPrice:             input.CurrentPrice,
		MarketCap:                input.MarketCap,
		PriceChange24h:           input.PriceChange24h,
		PriceChangePercentage24h: input.PriceChangePercentage24h,
		ImageURL:                 strings.TrimSpace(input.ImageURL),
	}

	if err := s.storage.FavoriteStore().CreateFavorite(ctx, fav); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.Info().Uint64("user_id", userID).Str("crypto_id", fav.CryptoID).Msg("Favorite added")
	return fav, nil
}

// Remove deletes one of the user's favorites by id.
func (s *Service) Remove(ctx context.Context, userID uint64, favoriteID uint64) error {
	fav, err := s.storage.FavoriteStore().GetFavorite(ctx, favoriteID)
	if err != nil {
		return err
	}
	if fav.UserID != userID {
		return fmt.Errorf("favorite %d belongs to another user: %w", favoriteID, models.ErrForbidden)
	}
	if err := s.storage.FavoriteStore().DeleteFavorite(ctx, favoriteID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	s.logger.Info().Uint64("user_id", userID).Uint64("favorite_id", favoriteID).Msg("Favorite removed")
	return nil
}

func validateInput(input *models.FavoriteInput) error {
	verr := &models.ValidationError{Fields: map[string][]string{}}
	if strings.TrimSpace(input.CryptoID) == "" {
		verr.AddField("crypto_id", "This field is required.")
	}
	if strings.TrimSpace(input.Name) == "" {
		verr.AddField("name", "This field is required.")
	}
	if strings.TrimSpace(input.Symbol) == "" {
		verr.AddField("symbol", "This field is required.")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
