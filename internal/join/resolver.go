// Package join resolves contestant deep links to a live team, surviving team
// renames via a member-name fallback scan.
//
// Resolution is a small state machine: Loading while the mirror may still be
// catching up, Found as soon as it contains a matching team+member pair, and
// TimedOut after a bounded wait, at which point the caller redirects to the
// team-selection entry point.
package join

import (
	"context"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"buzzboard/internal/board"
	"buzzboard/internal/models"
)

// DefaultTimeout bounds how long a deep link waits for the mirror before
// giving up and redirecting to team selection.
const DefaultTimeout = 2000 * time.Millisecond

// Status is the terminal state of a resolution attempt.
type Status int

const (
	StatusLoading Status = iota
	StatusFound
	StatusTimedOut
)

// Resolution is the outcome of resolving a (teamName, playerName) link.
type Resolution struct {
	Status Status
	Team   models.Team
	// RedirectTo is set when the caller should navigate elsewhere: the
	// corrected team URL after a rename, or the join page on timeout.
	RedirectTo string
}

// StateSource is the slice of the synchronization layer the resolver needs.
// *board.Service satisfies it.
type StateSource interface {
	TeamByName(name string) (models.Team, error)
	TeamByMember(playerName string) (models.Team, error)
	RegisterListener(board.ListenerFunc) func()
}

// Resolver resolves join links against the mirrored board state.
type Resolver struct {
	source  StateSource
	clock   clockwork.Clock
	timeout time.Duration
}

// NewResolver creates a resolver with the default bounded wait.
func NewResolver(source StateSource) *Resolver {
	return &Resolver{source: source, clock: clockwork.NewRealClock(), timeout: DefaultTimeout}
}

// NewResolverWithClock is NewResolver with an injectable clock and timeout.
func NewResolverWithClock(source StateSource, clock clockwork.Clock, timeout time.Duration) *Resolver {
	return &Resolver{source: source, clock: clock, timeout: timeout}
}

// TryResolve evaluates the link against the current mirror without waiting.
func (r *Resolver) TryResolve(teamName, playerName string) Resolution {
	// Exact team-name match first.
	if team, err := r.source.TeamByName(teamName); err == nil {
		if team.HasMember(playerName) {
			return Resolution{Status: StatusFound, Team: team}
		}
	}

	// Stale link fallback: the team may have been renamed since the link was
	// handed out, so scan every team for the player and correct the URL.
	if team, err := r.source.TeamByMember(playerName); err == nil {
		return Resolution{
			Status:     StatusFound,
			Team:       team,
			RedirectTo: TeamPath(team.Name, playerName),
		}
	}

	return Resolution{Status: StatusLoading}
}

// Resolve waits for the mirror to produce a match, re-evaluating on every
// snapshot delivery, and times out after the bounded wait with a redirect to
// the join page.
func (r *Resolver) Resolve(ctx context.Context, teamName, playerName string) Resolution {
	if res := r.TryResolve(teamName, playerName); res.Status == StatusFound {
		return res
	}

	changed := make(chan struct{}, 1)
	remove := r.source.RegisterListener(func(board.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer remove()

	// Re-check after registering: a delivery may have landed in between.
	if res := r.TryResolve(teamName, playerName); res.Status == StatusFound {
		return res
	}

	timer := r.clock.NewTimer(r.timeout)
	defer stopAndDrainTimer(timer)

	for {
		select {
		case <-changed:
			if res := r.TryResolve(teamName, playerName); res.Status == StatusFound {
				return res
			}
		case <-timer.Chan():
			return Resolution{Status: StatusTimedOut, RedirectTo: "/join"}
		case <-ctx.Done():
			return Resolution{Status: StatusTimedOut, RedirectTo: "/join"}
		}
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern from the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// TeamPath builds the canonical contestant path for a team/player pair.
func TeamPath(teamName, playerName string) string {
	return "/team/" + url.PathEscape(teamName) + "/" + url.PathEscape(playerName)
}
