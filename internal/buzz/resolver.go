// Package buzz resolves the buzzer race: given every team's buzz records it
// computes the global press order, which press was first, and how far behind
// the first press every other one landed.
package buzz

import (
	"sort"

	"buzzboard/internal/models"
)

// Entry is one buzzer press placed in the global order.
type Entry struct {
	TeamID      int    `json:"team_id"`
	TeamName    string `json:"team_name"`
	MemberName  string `json:"member_name"`
	Timestamp   int64  `json:"timestamp"`
	Rank        int    `json:"rank"`         // 1-based position in the global order
	DeltaMillis int64  `json:"delta_millis"` // offset from the first press, 0 for rank 1
}

// Result is the resolved race for one board snapshot.
type Result struct {
	Entries []Entry `json:"entries"`
}

// Resolve flattens every team's buzzes and orders them by client timestamp.
// The sort is stable over the flattening order (team iteration order, then
// insertion order within a team), so identical timestamps keep that order as
// the tie-break. Timestamps are client clocks; fairness at millisecond
// collisions is explicitly weak.
//
// Resolve is pure: the same input always yields the same ranks and deltas,
// and a missing buzz list is treated as empty.
func Resolve(teams []models.Team) Result {
	var entries []Entry
	for _, t := range teams {
		for _, b := range t.Buzzes {
			entries = append(entries, Entry{
				TeamID:     t.ID,
				TeamName:   t.Name,
				MemberName: b.MemberName,
				Timestamp:  b.Timestamp,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})

	if len(entries) > 0 {
		first := entries[0].Timestamp
		for i := range entries {
			entries[i].Rank = i + 1
			entries[i].DeltaMillis = entries[i].Timestamp - first
		}
	}

	return Result{Entries: entries}
}

// First returns the winning press, if anyone has buzzed.
func (r Result) First() (Entry, bool) {
	if len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[0], true
}

// TeamEntries returns the ranked presses belonging to one team, preserving
// global order. A team with several members buzzing gets one entry per press.
func (r Result) TeamEntries(teamID int) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}
	return out
}

// TeamHoldsFirst reports whether the winning press belongs to the team.
func (r Result) TeamHoldsFirst(teamID int) bool {
	first, ok := r.First()
	return ok && first.TeamID == teamID
}
