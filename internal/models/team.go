package models

// Team represents one contestant team on the game board
type Team struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Color   string       `json:"color"`
	Members []string     `json:"members"`
	Score   int          `json:"score"`
	Image   string       `json:"image"`
	Theme   Theme        `json:"theme"`
	Buzzes  []BuzzRecord `json:"buzzes,omitempty"`
}

// Theme holds the display classes for a team. The server treats these as
// opaque strings; only the board UI interprets them.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Text      string `json:"text"`
	Border    string `json:"border"`
	Hover     string `json:"hover"`
}

// BuzzRecord is a single buzzer press: who pressed, and the client-reported
// wall-clock time in milliseconds since epoch. Records are never deduplicated
// by member; a team accumulates one per press until an explicit reset.
type BuzzRecord struct {
	MemberName string `json:"member_name"`
	Timestamp  int64  `json:"timestamp"`
}

// HasBuzzed reports whether any member of the team has pressed the buzzer.
func (t Team) HasBuzzed() bool {
	return len(t.Buzzes) > 0
}

// HasMember reports whether the given player appears in the member list.
func (t Team) HasMember(name string) bool {
	for _, m := range t.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the team. Mutation operations work on copies
// so the shared mirror is never aliased by an in-flight write.
func (t Team) Clone() Team {
	out := t
	if t.Members != nil {
		out.Members = append([]string(nil), t.Members...)
	}
	if t.Buzzes != nil {
		out.Buzzes = append([]BuzzRecord(nil), t.Buzzes...)
	}
	return out
}

// CloneTeams deep-copies a full team list.
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i, t := range teams {
		out[i] = t.Clone()
	}
	return out
}
