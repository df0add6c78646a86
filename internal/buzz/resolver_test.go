package buzz

import (
	"reflect"
	"testing"

	"buzzboard/internal/models"
)

func team(id int, name string, buzzes ...models.BuzzRecord) models.Team {
	return models.Team{ID: id, Name: name, Buzzes: buzzes}
}

func TestResolveEmpty(t *testing.T) {
	r := Resolve([]models.Team{team(1, "Phoenix"), team(2, "Dragons")})
	if len(r.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(r.Entries))
	}
	if _, ok := r.First(); ok {
		t.Fatal("expected no first press")
	}
	if r.TeamHoldsFirst(1) {
		t.Fatal("no team should hold first with zero buzzes")
	}
}

func TestResolveTwoTeams(t *testing.T) {
	teams := []models.Team{
		team(1, "Phoenix", models.BuzzRecord{MemberName: "alice", Timestamp: 1000}),
		team(2, "Dragons", models.BuzzRecord{MemberName: "bob", Timestamp: 1005}),
	}

	r := Resolve(teams)
	if len(r.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(r.Entries))
	}

	first, ok := r.First()
	if !ok || first.TeamID != 1 || first.MemberName != "alice" {
		t.Fatalf("unexpected first press: %+v", first)
	}
	if first.Rank != 1 || first.DeltaMillis != 0 {
		t.Fatalf("first press must be rank 1 delta 0, got %+v", first)
	}
	if r.Entries[1].Rank != 2 || r.Entries[1].DeltaMillis != 5 {
		t.Fatalf("expected rank 2 delta 5, got %+v", r.Entries[1])
	}
	if !r.TeamHoldsFirst(1) || r.TeamHoldsFirst(2) {
		t.Fatal("Phoenix should hold first")
	}
}

func TestResolveOrderingInvariants(t *testing.T) {
	teams := []models.Team{
		team(1, "Phoenix",
			models.BuzzRecord{MemberName: "alice", Timestamp: 3000},
			models.BuzzRecord{MemberName: "amy", Timestamp: 1500},
		),
		team(2, "Dragons", models.BuzzRecord{MemberName: "bob", Timestamp: 2000}),
		team(3, "Tigers"),
	}

	r := Resolve(teams)
	if len(r.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(r.Entries))
	}
	for i, e := range r.Entries {
		if e.Rank != i+1 {
			t.Fatalf("entry %d has rank %d", i, e.Rank)
		}
		if e.DeltaMillis < 0 {
			t.Fatalf("entry %d has negative delta %d", i, e.DeltaMillis)
		}
		if i > 0 && e.Timestamp < r.Entries[i-1].Timestamp {
			t.Fatalf("entries not sorted at index %d", i)
		}
	}
	if r.Entries[0].MemberName != "amy" {
		t.Fatalf("expected amy first, got %s", r.Entries[0].MemberName)
	}
}

func TestResolveTieKeepsFlatteningOrder(t *testing.T) {
	teams := []models.Team{
		team(1, "Phoenix", models.BuzzRecord{MemberName: "alice", Timestamp: 1000}),
		team(2, "Dragons", models.BuzzRecord{MemberName: "bob", Timestamp: 1000}),
	}

	r := Resolve(teams)
	if r.Entries[0].MemberName != "alice" || r.Entries[1].MemberName != "bob" {
		t.Fatalf("tie should keep team order, got %+v", r.Entries)
	}
	if r.Entries[1].DeltaMillis != 0 {
		t.Fatalf("tied press has delta %d, want 0", r.Entries[1].DeltaMillis)
	}
}

func TestResolveMultiplePressesSameTeam(t *testing.T) {
	teams := []models.Team{
		team(1, "Phoenix",
			models.BuzzRecord{MemberName: "alice", Timestamp: 1000},
			models.BuzzRecord{MemberName: "amy", Timestamp: 1010},
		),
	}

	r := Resolve(teams)
	mine := r.TeamEntries(1)
	if len(mine) != 2 {
		t.Fatalf("expected both presses ranked, got %d", len(mine))
	}
	if mine[0].Rank != 1 || mine[1].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", mine)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	teams := []models.Team{
		team(1, "Phoenix", models.BuzzRecord{MemberName: "alice", Timestamp: 1200}),
		team(2, "Dragons",
			models.BuzzRecord{MemberName: "bob", Timestamp: 1100},
			models.BuzzRecord{MemberName: "ben", Timestamp: 1200},
		),
	}

	first := Resolve(teams)
	second := Resolve(teams)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolver is not deterministic:\n%+v\n%+v", first, second)
	}
}
