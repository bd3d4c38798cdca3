package internaldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()
	store, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		PasswordHash: "hash123",
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Error("ID should be assigned")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	// Get by id
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("got %+v", got)
	}

	// Get by username
	got, err = store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("GetUserByUsername: got id %d, want %d", got.ID, user.ID)
	}

	// Delete
	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := store.GetUserByID(ctx, user.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetUserByID after delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	if err := store.CreateUser(ctx, &models.User{Username: "bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := store.CreateUser(ctx, &models.User{Username: "bob", Email: "other@example.com"})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate username: got %v, want ErrConflict", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	if _, err := store.GetUserByID(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetUserByID: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetUserByUsername: got %v, want ErrNotFound", err)
	}
}

func TestFavoriteCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	price := 45000.0
	fav := &models.Favorite{
		UserID:       1,
		CryptoID:     "bitcoin",
		Name:         "Bitcoin",
		Symbol:       "btc",
		CurrentPrice: &price,
	}
	if err := store.CreateFavorite(ctx, fav); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}
	if fav.ID == 0 {
		t.Error("ID should be assigned")
	}

	got, err := store.GetFavorite(ctx, fav.ID)
	if err != nil {
		t.Fatalf("GetFavorite: %v", err)
	}
	if got.CryptoID != "bitcoin" || got.UserID != 1 {
		t.Errorf("got %+v", got)
	}
	if got.CurrentPrice == nil || *got.CurrentPrice != 45000.0 {
		t.Errorf("CurrentPrice: got %v", got.CurrentPrice)
	}

	if err := store.DeleteFavorite(ctx, fav.ID); err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	if _, err := store.GetFavorite(ctx, fav.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetFavorite after delete: got %v, want ErrNotFound", err)
	}
	if err := store.DeleteFavorite(ctx, fav.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteFavorite twice: got %v, want ErrNotFound", err)
	}
}

func TestCreateFavoriteDuplicate(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	if err := store.CreateFavorite(ctx, &models.Favorite{UserID: 1, CryptoID: "bitcoin", Name: "Bitcoin"}); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}

	// Same user, same coin
	err := store.CreateFavorite(ctx, &models.Favorite{UserID: 1, CryptoID: "bitcoin", Name: "Bitcoin"})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate favorite: got %v, want ErrConflict", err)
	}

	// Different user, same coin is fine
	if err := store.CreateFavorite(ctx, &models.Favorite{UserID: 2, CryptoID: "bitcoin", Name: "Bitcoin"}); err != nil {
		t.Errorf("other user favorite: %v", err)
	}
}

func TestListFavoritesNewestFirst(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	coins := []string{"bitcoin", "ethereum", "solana"}
	for i, id := range coins {
		fav := &models.Favorite{
			UserID:    1,
			CryptoID:  id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateFavorite(ctx, fav); err != nil {
			t.Fatalf("CreateFavorite %s: %v", id, err)
		}
	}
	// Another user's row should not leak in
	if err := store.CreateFavorite(ctx, &models.Favorite{UserID: 2, CryptoID: "dogecoin"}); err != nil {
		t.Fatalf("CreateFavorite other user: %v", err)
	}

	favs, err := store.ListFavoritesByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListFavoritesByUser: %v", err)
	}
	if len(favs) != 3 {
		t.Fatalf("got %d favorites, want 3", len(favs))
	}
	want := []string{"solana", "ethereum", "bitcoin"}
	for i, fav := range favs {
		if fav.CryptoID != want[i] {
			t.Errorf("favs[%d]: got %s, want %s", i, fav.CryptoID, want[i])
		}
	}
}

func TestDeleteUserCascadesFavorites(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	user := &models.User{Username: "carol", Email: "carol@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.CreateFavorite(ctx, &models.Favorite{UserID: user.ID, CryptoID: "bitcoin"}); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}

	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	favs, err := store.ListFavoritesByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListFavoritesByUser: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("favorites should be removed with user, got %d", len(favs))
	}
}
