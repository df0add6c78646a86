// Package board owns the client-local mirror of the shared board state and
// the mutation operations against it.
//
// Every mutation follows the same read-merge-write contract: take the current
// mirror as the base, apply one semantic change to a deep copy, and write the
// whole document back, blindly overwriting whatever the store holds. The
// mirror itself is only updated when the store's push channel delivers the
// new snapshot, writer included. Two concurrent writers therefore race at
// document granularity: last write wins and the loser's change is silently
// discarded. That is the documented behavior of this design, not an accident
// to be patched here.
package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/models"
	"buzzboard/internal/store"
)

// Snapshot is one consistent view of the mirrored board state.
type Snapshot struct {
	Teams     []models.Team    `json:"teams"`
	GameState models.GameState `json:"game_state"`
}

// ListenerFunc receives every mirror update.
type ListenerFunc func(Snapshot)

// Service is the state synchronization layer.
type Service struct {
	store store.Store

	mu        sync.RWMutex
	teams     []models.Team
	gameState models.GameState
	loaded    bool

	listenerMu sync.Mutex
	listeners  map[int]ListenerFunc
	nextID     int

	unsubTeams store.Unsubscribe
	unsubGame  store.Unsubscribe
}

// NewService creates the synchronization layer over the given store.
func NewService(st store.Store) *Service {
	return &Service{
		store:     st,
		gameState: models.DefaultGameState(),
		listeners: make(map[int]ListenerFunc),
	}
}

// Start bootstraps and subscribes.
//
// Bootstrap reads each document once and writes the canonical default when
// the store is empty. Two clients activating against an empty store can both
// observe "empty" and both write; the race is benign only because both write
// the identical canonical document. Subscriptions are registered before the
// seeding read so no change can slip between them.
func (s *Service) Start(ctx context.Context) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}

	unsubTeams, err := s.store.Subscribe(ctx, store.PathTeams, s.onChange)
	if err != nil {
		return fmt.Errorf("subscribe teams: %w", err)
	}
	s.unsubTeams = unsubTeams

	unsubGame, err := s.store.Subscribe(ctx, store.PathGameState, s.onChange)
	if err != nil {
		unsubTeams()
		return fmt.Errorf("subscribe game state: %w", err)
	}
	s.unsubGame = unsubGame

	if err := s.seedMirror(ctx); err != nil {
		return err
	}

	log.Info().Msg("board state synchronized")
	return nil
}

func (s *Service) bootstrap(ctx context.Context) error {
	_, ok, err := s.store.Read(ctx, store.PathTeams)
	if err != nil {
		return fmt.Errorf("bootstrap read: %w", err)
	}
	if !ok {
		if err := s.writeTeams(ctx, models.DefaultTeams()); err != nil {
			return fmt.Errorf("bootstrap teams: %w", err)
		}
		log.Info().Msg("initialized default roster")
	}

	_, ok, err = s.store.Read(ctx, store.PathGameState)
	if err != nil {
		return fmt.Errorf("bootstrap read: %w", err)
	}
	if !ok {
		if err := s.writeGameState(ctx, models.DefaultGameState()); err != nil {
			return fmt.Errorf("bootstrap game state: %w", err)
		}
	}
	return nil
}

// seedMirror loads the current documents into the mirror so consumers have a
// snapshot before the first push delivery arrives.
func (s *Service) seedMirror(ctx context.Context) error {
	for _, path := range []string{store.PathTeams, store.PathGameState} {
		value, ok, err := s.store.Read(ctx, path)
		if err != nil {
			return fmt.Errorf("seed mirror: %w", err)
		}
		if ok {
			s.onChange(path, value)
		}
	}
	return nil
}

// onChange folds a pushed document into the mirror and notifies listeners.
// A malformed document is logged and dropped; the mirror keeps reflecting the
// last successfully delivered snapshot.
func (s *Service) onChange(path string, value []byte) {
	s.mu.Lock()
	switch path {
	case store.PathTeams:
		var teams []models.Team
		if err := json.Unmarshal(value, &teams); err != nil {
			s.mu.Unlock()
			log.Error().Err(err).Str("path", path).Msg("dropping malformed snapshot")
			return
		}
		s.teams = teams
		s.loaded = true
	case store.PathGameState:
		var gs models.GameState
		if err := json.Unmarshal(value, &gs); err != nil {
			s.mu.Unlock()
			log.Error().Err(err).Str("path", path).Msg("dropping malformed snapshot")
			return
		}
		s.gameState = gs
	default:
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Stop tears down the subscriptions.
func (s *Service) Stop() {
	if s.unsubTeams != nil {
		s.unsubTeams()
	}
	if s.unsubGame != nil {
		s.unsubGame()
	}
}

// Snapshot returns a deep copy of the mirrored state. ok is false until the
// mirror has received the team list at least once.
func (s *Service) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.loaded
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Teams:     models.CloneTeams(s.teams),
		GameState: s.gameState,
	}
}

// TeamByName returns the mirrored team with the exact name.
func (s *Service) TeamByName(name string) (models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if t.Name == name {
			return t.Clone(), nil
		}
	}
	return models.Team{}, ErrNotFound
}

// TeamByMember scans all teams for one whose member list contains the player.
// This is the fallback that keeps stale join links working after a rename.
func (s *Service) TeamByMember(playerName string) (models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if t.HasMember(playerName) {
			return t.Clone(), nil
		}
	}
	return models.Team{}, ErrNotFound
}

// RegisterListener subscribes fn to mirror updates. The returned func removes
// the registration.
func (s *Service) RegisterListener(fn ListenerFunc) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Service) notify(snap Snapshot) {
	s.listenerMu.Lock()
	fns := make([]ListenerFunc, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Service) writeTeams(ctx context.Context, teams []models.Team) error {
	value, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("marshal teams: %w", err)
	}
	return s.store.Write(ctx, store.PathTeams, value)
}

func (s *Service) writeGameState(ctx context.Context, gs models.GameState) error {
	value, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	return s.store.Write(ctx, store.PathGameState, value)
}
