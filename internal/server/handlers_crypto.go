package server

import (
	"net/http"
)

// handleCryptoList handles GET /api/cryptos/. The snapshot list is public
// and always returns 200: cached, upstream, stale, or the fallback set.
func (s *Server) handleCryptoList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	snapshots := s.app.MarketService.Snapshots(r.Context())
	WriteJSON(w, http.StatusOK, snapshots)
}

// handleCryptoDetail handles GET /api/cryptos/{id}/.
func (s *Server) handleCryptoDetail(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	snapshot, err := s.app.MarketService.Snapshot(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}
