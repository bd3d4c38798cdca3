package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/testserebro/crypto-tracker/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/register/", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/login/", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/refresh", s.handleAuthRefresh)
	mux.HandleFunc("/api/auth/refresh/", s.handleAuthRefresh)
	mux.HandleFunc("/api/auth/me", s.handleAuthMe)
	mux.HandleFunc("/api/auth/me/", s.handleAuthMe)

	// Market snapshots
	mux.HandleFunc("/api/cryptos", s.handleCryptoList)
	mux.HandleFunc("/api/cryptos/", s.routeCryptos)

	// Favorites
	mux.HandleFunc("/api/favorites", s.handleFavoritesRoot)
	mux.HandleFunc("/api/favorites/", s.routeFavorites)
}

// routeCryptos dispatches /api/cryptos/ and /api/cryptos/{id}/.
func (s *Server) routeCryptos(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/cryptos/", "/")
	if id == "" {
		s.handleCryptoList(w, r)
		return
	}
	if strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleCryptoDetail(w, r, id)
}

// routeFavorites dispatches /api/favorites/ and /api/favorites/{id}/.
func (s *Server) routeFavorites(w http.ResponseWriter, r *http.Request) {
	rest := PathParam(r, "/api/favorites/", "/")
	if rest == "" {
		s.handleFavoritesRoot(w, r)
		return
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleFavoriteByID(w, r, id)
}

// requireUser returns the authenticated user context or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*common.UserContext, bool) {
	uc := common.UserContextFrom(r.Context())
	if uc == nil {
		writeBearerChallenge(w, "Authentication credentials were not provided")
		return nil, false
	}
	return uc, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
