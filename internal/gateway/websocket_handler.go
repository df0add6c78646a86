package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// HandleBoardConnection upgrades a client to the live board feed. The
// optional role query parameter distinguishes the shared display from
// contestant pages in the stats output; it has no effect on delivery, since
// every client receives every snapshot.
func (s *Service) HandleBoardConnection(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "board" && role != "contestant" {
		role = "contestant"
	}

	if err := s.connectionManager.UpgradeConnection(w, r, role, s.initEvent()); err != nil {
		log.Error().Err(err).Str("role", role).Msg("failed to upgrade websocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns counts of active connections by role.
func (s *Service) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ConnectionStats())
}
