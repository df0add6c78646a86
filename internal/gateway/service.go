package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/board"
	"buzzboard/internal/buzz"
	"buzzboard/internal/join"
	"buzzboard/internal/prefs"
)

// Service is the client-facing surface: websocket fan-out, the JSON API, and
// the contestant routing rules, all in front of the synchronization layer.
type Service struct {
	boardSvc          *board.Service
	resolver          *join.Resolver
	prefs             *prefs.Store
	connectionManager *ConnectionManager

	removeListener func()
}

// Config holds configuration for the gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig
}

// DefaultConfig returns default configuration for the gateway.
func DefaultConfig() Config {
	return Config{ConnectionConfig: DefaultConnectionConfig()}
}

// NewService creates the gateway over the synchronization layer.
func NewService(config Config, boardSvc *board.Service, resolver *join.Resolver, prefStore *prefs.Store) *Service {
	s := &Service{
		boardSvc: boardSvc,
		resolver: resolver,
		prefs:    prefStore,
	}
	s.connectionManager = NewConnectionManager(config.ConnectionConfig, s)
	return s
}

// Start wires the mirror's change feed into the broadcast channel and runs
// the connection manager until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting board gateway service")

	s.removeListener = s.boardSvc.RegisterListener(func(snap board.Snapshot) {
		event, err := marshalEvent(EventTypeUpdate, snap)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal snapshot broadcast")
			return
		}
		s.connectionManager.Broadcast(event)
		s.connectionManager.ReconcileBuzzes(snap)
	})

	go s.connectionManager.Start(ctx)

	<-ctx.Done()

	log.Info().Msg("board gateway service shutting down")
	return s.Stop()
}

// Stop detaches the gateway from the mirror's change feed.
func (s *Service) Stop() error {
	if s.removeListener != nil {
		s.removeListener()
	}
	log.Info().Msg("board gateway service stopped")
	return nil
}

// HandleCommand dispatches one client mutation command to the
// synchronization layer.
func (s *Service) HandleCommand(ctx context.Context, cmd ClientCommand) error {
	switch cmd.Type {
	case CmdAddMember:
		return s.boardSvc.AddMember(ctx, cmd.TeamName, cmd.PlayerName)
	case CmdRemoveMember:
		return s.boardSvc.RemoveMember(ctx, cmd.TeamName, cmd.MemberName)
	case CmdUpdateScore:
		return s.boardSvc.UpdateScore(ctx, cmd.TeamID, cmd.Increment)
	case CmdUpdateTeamImage:
		return s.boardSvc.UpdateTeamImage(ctx, cmd.TeamName, cmd.ImageURL)
	case CmdUpdateTeamName:
		return s.boardSvc.UpdateTeamName(ctx, cmd.TeamID, cmd.Name)
	case CmdBuzz:
		return s.boardSvc.Buzz(ctx, cmd.TeamName, cmd.MemberName, cmd.Timestamp)
	case CmdResetBuzzers:
		return s.boardSvc.ResetBuzzers(ctx)
	case CmdNewGame:
		return s.newGame(ctx)
	case CmdUpdateGameState:
		return s.boardSvc.UpdateGameState(ctx, cmd.RoundNumber, cmd.RoundText)
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

// newGame resets the shared state and clears the local logo override, the
// one piece of state that lives outside the shared store.
func (s *Service) newGame(ctx context.Context) error {
	if err := s.boardSvc.NewGame(ctx); err != nil {
		return err
	}
	if err := s.prefs.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear logo preference")
	}
	return nil
}

// initEvent marshals the current snapshot for a freshly upgraded connection.
func (s *Service) initEvent() []byte {
	snap, ok := s.boardSvc.Snapshot()
	if !ok {
		return nil
	}
	event, err := marshalEvent(EventTypeInit, snap)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal init snapshot")
		return nil
	}
	return event
}

func marshalEvent(typ EventType, snap board.Snapshot) ([]byte, error) {
	return json.Marshal(BoardEvent{
		Type:      typ,
		Teams:     snap.Teams,
		GameState: snap.GameState,
		BuzzOrder: buzz.Resolve(snap.Teams).Entries,
	})
}

// ConnectionStats exposes connection counts for the stats endpoint.
func (s *Service) ConnectionStats() map[string]int {
	return s.connectionManager.ConnectionStats()
}
