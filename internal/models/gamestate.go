package models

// GameState is the round-level record shown on the board, stored as its own
// document alongside the team list.
type GameState struct {
	RoundNumber int    `json:"round_number"`
	RoundText   string `json:"round_text"`
}

// DefaultGameState returns the game state written at bootstrap and on a new
// game: round 1, no round text.
func DefaultGameState() GameState {
	return GameState{RoundNumber: 1}
}
