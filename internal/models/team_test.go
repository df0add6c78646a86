package models

import "testing"

func TestHasMember(t *testing.T) {
	team := Team{Members: []string{"alice", "bob"}}
	if !team.HasMember("alice") {
		t.Fatal("expected alice to be a member")
	}
	if team.HasMember("carol") {
		t.Fatal("carol is not a member")
	}
}

func TestCloneIsDeep(t *testing.T) {
	team := Team{
		ID:      1,
		Members: []string{"alice"},
		Buzzes:  []BuzzRecord{{MemberName: "alice", Timestamp: 1000}},
	}

	clone := team.Clone()
	clone.Members[0] = "mallory"
	clone.Buzzes[0].Timestamp = 9999

	if team.Members[0] != "alice" || team.Buzzes[0].Timestamp != 1000 {
		t.Fatalf("clone aliases the original: %+v", team)
	}
}

func TestDefaultTeamsShape(t *testing.T) {
	teams := DefaultTeams()
	if len(teams) != 4 {
		t.Fatalf("expected 4 default teams, got %d", len(teams))
	}
	seen := make(map[int]bool)
	for _, team := range teams {
		if seen[team.ID] {
			t.Fatalf("duplicate team id %d", team.ID)
		}
		seen[team.ID] = true
		if team.Score != 0 || len(team.Members) != 0 || team.HasBuzzed() {
			t.Fatalf("default team not pristine: %+v", team)
		}
	}
}
