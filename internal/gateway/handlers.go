package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"buzzboard/internal/buzz"
	"buzzboard/internal/join"
	"buzzboard/internal/models"
)

// RegisterRoutes attaches every HTTP route to the router.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handleBoardSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/join", s.handleJoinRoster).Methods(http.MethodGet)
	r.HandleFunc("/team/{teamName}/{playerName}", s.handleTeamLink).Methods(http.MethodGet)

	r.HandleFunc("/api/teams/{teamName}/members", s.handleAddMember).Methods(http.MethodPost)
	r.HandleFunc("/api/teams/{teamName}/members/{playerName}", s.handleRemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/api/teams/{teamID:[0-9]+}/score", s.handleUpdateScore).Methods(http.MethodPost)
	r.HandleFunc("/api/teams/{teamName}/image", s.handleUpdateTeamImage).Methods(http.MethodPut)
	r.HandleFunc("/api/teams/{teamID:[0-9]+}/name", s.handleUpdateTeamName).Methods(http.MethodPut)
	r.HandleFunc("/api/teams/{teamName}/buzz", s.handleBuzz).Methods(http.MethodPost)
	r.HandleFunc("/api/buzzers/reset", s.handleResetBuzzers).Methods(http.MethodPost)
	r.HandleFunc("/api/game/new", s.handleNewGame).Methods(http.MethodPost)
	r.HandleFunc("/api/game/state", s.handleUpdateGameState).Methods(http.MethodPut)

	r.HandleFunc("/api/logo", s.handleGetLogo).Methods(http.MethodGet)
	r.HandleFunc("/api/logo", s.handleSetLogo).Methods(http.MethodPut)
	r.HandleFunc("/api/logo", s.handleClearLogo).Methods(http.MethodDelete)

	r.HandleFunc("/ws/board", s.HandleBoardConnection).Methods(http.MethodGet)
	r.HandleFunc("/ws/stats", s.HandleConnectionStats).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// boardView is the full derived state the shared display renders.
type boardView struct {
	Teams     []models.Team    `json:"teams"`
	GameState models.GameState `json:"game_state"`
	BuzzOrder []buzz.Entry     `json:"buzz_order"`
}

func (s *Service) handleBoardSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.boardSvc.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "board state not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, boardView{
		Teams:     snap.Teams,
		GameState: snap.GameState,
		BuzzOrder: buzz.Resolve(snap.Teams).Entries,
	})
}

// joinTeam is the roster summary shown on the team-selection form.
type joinTeam struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Color       string       `json:"color"`
	Theme       models.Theme `json:"theme"`
	MemberCount int          `json:"member_count"`
}

func (s *Service) handleJoinRoster(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.boardSvc.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "board state not loaded yet")
		return
	}
	teams := make([]joinTeam, 0, len(snap.Teams))
	for _, t := range snap.Teams {
		teams = append(teams, joinTeam{
			ID:          t.ID,
			Name:        t.Name,
			Color:       t.Color,
			Theme:       t.Theme,
			MemberCount: len(t.Members),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// handleTeamLink resolves a contestant deep link. A stale link (the team was
// renamed) redirects to the corrected URL; an unresolvable link redirects to
// team selection after the bounded wait.
func (s *Service) handleTeamLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res := s.resolver.Resolve(r.Context(), vars["teamName"], vars["playerName"])

	switch {
	case res.Status == join.StatusFound && res.RedirectTo != "":
		http.Redirect(w, r, res.RedirectTo, http.StatusFound)
	case res.Status == join.StatusFound:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"team":        res.Team,
			"player_name": vars["playerName"],
		})
	default:
		http.Redirect(w, r, "/join", http.StatusFound)
	}
}

func (s *Service) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	err := s.boardSvc.AddMember(r.Context(), mux.Vars(r)["teamName"], strings.TrimSpace(body.PlayerName))
	writeMutationResult(w, err)
}

func (s *Service) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := s.boardSvc.RemoveMember(r.Context(), vars["teamName"], vars["playerName"])
	writeMutationResult(w, err)
}

func (s *Service) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	teamID, _ := strconv.Atoi(mux.Vars(r)["teamID"])
	var body struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeMutationResult(w, s.boardSvc.UpdateScore(r.Context(), teamID, body.Delta))
}

func (s *Service) handleUpdateTeamImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ImageURL string `json:"image_url"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeMutationResult(w, s.boardSvc.UpdateTeamImage(r.Context(), mux.Vars(r)["teamName"], body.ImageURL))
}

func (s *Service) handleUpdateTeamName(w http.ResponseWriter, r *http.Request) {
	teamID, _ := strconv.Atoi(mux.Vars(r)["teamID"])
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeMutationResult(w, s.boardSvc.UpdateTeamName(r.Context(), teamID, strings.TrimSpace(body.Name)))
}

func (s *Service) handleBuzz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MemberName string `json:"member_name"`
		Timestamp  int64  `json:"timestamp"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeMutationResult(w, s.boardSvc.Buzz(r.Context(), mux.Vars(r)["teamName"], body.MemberName, body.Timestamp))
}

func (s *Service) handleResetBuzzers(w http.ResponseWriter, r *http.Request) {
	writeMutationResult(w, s.boardSvc.ResetBuzzers(r.Context()))
}

func (s *Service) handleNewGame(w http.ResponseWriter, r *http.Request) {
	writeMutationResult(w, s.newGame(r.Context()))
}

func (s *Service) handleUpdateGameState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoundNumber int    `json:"round_number"`
		RoundText   string `json:"round_text"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeMutationResult(w, s.boardSvc.UpdateGameState(r.Context(), body.RoundNumber, body.RoundText))
}

func (s *Service) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	url, ok := s.prefs.LogoURL()
	if !ok {
		writeError(w, http.StatusNotFound, "no logo override set")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"logo_url": url})
}

func (s *Service) handleSetLogo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LogoURL string `json:"logo_url"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.LogoURL) == "" {
		writeError(w, http.StatusBadRequest, "logo_url must not be empty")
		return
	}
	if err := s.prefs.SetLogoURL(body.LogoURL); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleClearLogo(w http.ResponseWriter, r *http.Request) {
	if err := s.prefs.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleNotFound redirects unknown contestant-facing paths to team selection
// and everything else to the board.
func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isContestantPath(r.URL.Path) {
		http.Redirect(w, r, "/join", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func isContestantPath(path string) bool {
	return strings.HasPrefix(path, "/join") || strings.HasPrefix(path, "/team")
}

// decodeBody parses a JSON request body, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
