package gateway

import (
	"testing"

	"buzzboard/internal/board"
	"buzzboard/internal/models"
	"buzzboard/internal/optimistic"
)

func newTrackedConnection() *Connection {
	return &Connection{
		ID:        "test",
		Role:      "contestant",
		BuzzState: optimistic.NewTracker(),
	}
}

func TestReconcileConfirmsMatchingBuzz(t *testing.T) {
	conn := newTrackedConnection()
	conn.trackBuzz("Phoenix", "alice", 1000)

	snap := board.Snapshot{Teams: []models.Team{
		{ID: 1, Name: "Phoenix", Buzzes: []models.BuzzRecord{{MemberName: "alice", Timestamp: 1000}}},
	}}
	conn.reconcileBuzz(snap)

	if got := conn.BuzzState.State(); got != optimistic.StateConfirmed {
		t.Fatalf("expected confirmed, got %v", got)
	}
}

func TestReconcileResetsWhenBuzzersCleared(t *testing.T) {
	conn := newTrackedConnection()
	conn.trackBuzz("Phoenix", "alice", 1000)

	snap := board.Snapshot{Teams: []models.Team{
		{ID: 1, Name: "Phoenix"},
	}}
	conn.reconcileBuzz(snap)

	if got := conn.BuzzState.State(); got != optimistic.StateIdle {
		t.Fatalf("expected idle after reset, got %v", got)
	}
}

func TestReconcileStaysPendingUntilRecordLands(t *testing.T) {
	conn := newTrackedConnection()
	conn.trackBuzz("Phoenix", "alice", 1000)

	// Another team's press arrives first; the prediction is still open.
	snap := board.Snapshot{Teams: []models.Team{
		{ID: 1, Name: "Phoenix", Buzzes: []models.BuzzRecord{{MemberName: "bob", Timestamp: 999}}},
		{ID: 2, Name: "Dragons", Buzzes: []models.BuzzRecord{{MemberName: "carol", Timestamp: 998}}},
	}}
	conn.reconcileBuzz(snap)

	if got := conn.BuzzState.State(); got != optimistic.StatePending {
		t.Fatalf("expected pending, got %v", got)
	}
}

func TestReconcileWithoutPredictionIsNoOp(t *testing.T) {
	conn := newTrackedConnection()

	snap := board.Snapshot{Teams: []models.Team{
		{ID: 1, Name: "Phoenix", Buzzes: []models.BuzzRecord{{MemberName: "alice", Timestamp: 1000}}},
	}}
	conn.reconcileBuzz(snap)

	if got := conn.BuzzState.State(); got != optimistic.StateIdle {
		t.Fatalf("expected idle, got %v", got)
	}
}
