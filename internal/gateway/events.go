package gateway

import (
	"buzzboard/internal/buzz"
	"buzzboard/internal/models"
)

// EventType identifies a server-to-client board event.
type EventType string

const (
	// EventTypeInit is the first full snapshot sent to a new connection.
	EventTypeInit EventType = "init"
	// EventTypeUpdate is a full snapshot fanned out after every change.
	EventTypeUpdate EventType = "update"
)

// BoardEvent is the wire format pushed to every websocket client. Clients
// always receive the entire board state, never a diff, matching the store's
// own fan-out semantics.
type BoardEvent struct {
	Type      EventType        `json:"type"`
	Teams     []models.Team    `json:"teams"`
	GameState models.GameState `json:"game_state"`
	BuzzOrder []buzz.Entry     `json:"buzz_order"`
}

// Client-to-server command types, one per mutation operation.
const (
	CmdAddMember       = "addMember"
	CmdRemoveMember    = "removeMember"
	CmdUpdateScore     = "updateScore"
	CmdUpdateTeamImage = "updateTeamImage"
	CmdUpdateTeamName  = "updateTeamName"
	CmdBuzz            = "buzz"
	CmdResetBuzzers    = "resetBuzzers"
	CmdNewGame         = "newGame"
	CmdUpdateGameState = "updateGameState"
)

// ClientCommand is a mutation request arriving over the websocket. Fields are
// a union across command types; each handler reads only the ones it needs.
type ClientCommand struct {
	Type        string `json:"type"`
	TeamName    string `json:"team_name,omitempty"`
	TeamID      int    `json:"team_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	MemberName  string `json:"member_name,omitempty"`
	Increment   int    `json:"increment,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Name        string `json:"name,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	RoundText   string `json:"round_text,omitempty"`
}
