package join

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"buzzboard/internal/board"
	"buzzboard/internal/models"
)

type stubSource struct {
	mu        sync.Mutex
	teams     []models.Team
	listeners []board.ListenerFunc
}

func (s *stubSource) TeamByName(name string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return models.Team{}, board.ErrNotFound
}

func (s *stubSource) TeamByMember(playerName string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.HasMember(playerName) {
			return t, nil
		}
	}
	return models.Team{}, board.ErrNotFound
}

func (s *stubSource) RegisterListener(fn board.ListenerFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	return func() {}
}

func (s *stubSource) setTeams(teams []models.Team) {
	s.mu.Lock()
	s.teams = teams
	fns := append([]board.ListenerFunc(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(board.Snapshot{Teams: teams})
	}
}

func TestTryResolveExactMatch(t *testing.T) {
	src := &stubSource{teams: []models.Team{
		{ID: 1, Name: "Phoenix", Members: []string{"alice"}},
	}}
	r := NewResolver(src)

	res := r.TryResolve("Phoenix", "alice")
	if res.Status != StatusFound {
		t.Fatalf("expected found, got %v", res.Status)
	}
	if res.RedirectTo != "" {
		t.Fatalf("exact match needs no redirect, got %q", res.RedirectTo)
	}
}

func TestTryResolveRenamedTeamFallsBackToMemberScan(t *testing.T) {
	src := &stubSource{teams: []models.Team{
		{ID: 1, Name: "Firebirds", Members: []string{"alice"}},
	}}
	r := NewResolver(src)

	// Link still carries the old team name.
	res := r.TryResolve("Phoenix", "alice")
	if res.Status != StatusFound {
		t.Fatalf("expected fallback to find the renamed team, got %v", res.Status)
	}
	if res.Team.Name != "Firebirds" {
		t.Fatalf("wrong team: %+v", res.Team)
	}
	if res.RedirectTo != "/team/Firebirds/alice" {
		t.Fatalf("expected corrected URL, got %q", res.RedirectTo)
	}
}

func TestTryResolveUnknownStaysLoading(t *testing.T) {
	r := NewResolver(&stubSource{})
	if res := r.TryResolve("Phoenix", "alice"); res.Status != StatusLoading {
		t.Fatalf("expected loading, got %v", res.Status)
	}
}

func TestResolveFindsMatchOnLaterSnapshot(t *testing.T) {
	src := &stubSource{}
	fc := clockwork.NewFakeClock()
	r := NewResolverWithClock(src, fc, DefaultTimeout)

	done := make(chan Resolution, 1)
	go func() {
		done <- r.Resolve(context.Background(), "Phoenix", "alice")
	}()

	fc.BlockUntil(1) // resolver is parked on its timeout timer
	src.setTeams([]models.Team{{ID: 1, Name: "Phoenix", Members: []string{"alice"}}})

	select {
	case res := <-done:
		if res.Status != StatusFound || res.Team.Name != "Phoenix" {
			t.Fatalf("unexpected resolution: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("resolution never completed")
	}
}

func TestResolveTimesOutToJoinPage(t *testing.T) {
	src := &stubSource{}
	fc := clockwork.NewFakeClock()
	r := NewResolverWithClock(src, fc, DefaultTimeout)

	done := make(chan Resolution, 1)
	go func() {
		done <- r.Resolve(context.Background(), "Phoenix", "alice")
	}()

	fc.BlockUntil(1)
	fc.Advance(DefaultTimeout)

	select {
	case res := <-done:
		if res.Status != StatusTimedOut {
			t.Fatalf("expected timeout, got %+v", res)
		}
		if res.RedirectTo != "/join" {
			t.Fatalf("timeout must redirect to /join, got %q", res.RedirectTo)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("resolution never timed out")
	}
}

func TestResolveMemberOfOtherTeamNeverMatchesWrongLink(t *testing.T) {
	src := &stubSource{teams: []models.Team{
		{ID: 1, Name: "Phoenix", Members: []string{"alice"}},
		{ID: 2, Name: "Dragons", Members: []string{"bob"}},
	}}
	r := NewResolver(src)

	// bob's link points at Phoenix; the member scan still finds bob's real
	// team and corrects the URL rather than failing.
	res := r.TryResolve("Phoenix", "bob")
	if res.Status != StatusFound || res.Team.Name != "Dragons" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.RedirectTo != "/team/Dragons/bob" {
		t.Fatalf("expected corrected URL, got %q", res.RedirectTo)
	}
}

func TestTeamPathEscapesNames(t *testing.T) {
	got := TeamPath("New Phoenix", "alice jones")
	if got != "/team/New%20Phoenix/alice%20jones" {
		t.Fatalf("unexpected path %q", got)
	}
}
