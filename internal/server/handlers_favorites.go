package server

import (
	"net/http"

	"github.com/testserebro/crypto-tracker/internal/models"
)

// handleFavoritesRoot handles GET and POST /api/favorites/.
func (s *Server) handleFavoritesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleFavoriteList(w, r)
	case http.MethodPost:
		s.handleFavoriteCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleFavoriteList(w http.ResponseWriter, r *http.Request) {
	uc, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	favs, err := s.app.FavoriteService.List(r.Context(), uc.UserID)
	if err != nil {
		s.logger.Error().Err(err).Uint64("user_id", uc.UserID).Msg("Failed to list favorites")
		WriteServiceError(w, err)
		return
	}
	if favs == nil {
		favs = []*models.Favorite{}
	}
	WriteJSON(w, http.StatusOK, favs)
}

func (s *Server) handleFavoriteCreate(w http.ResponseWriter, r *http.Request) {
	uc, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var input models.FavoriteInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	fav, err := s.app.FavoriteService.Add(r.Context(), uc.UserID, &input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, fav)
}

// handleFavoriteByID handles DELETE /api/favorites/{id}/.
func (s *Server) handleFavoriteByID(w http.ResponseWriter, r *http.Request, id uint64) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	uc, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.FavoriteService.Remove(r.Context(), uc.UserID, id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
