package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/board"
	"buzzboard/internal/optimistic"
)

// ConnectionManager manages the websocket connections watching the board.
// Every connected client, board display or contestant page alike, receives
// the full board snapshot on every change.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan []byte
	commands    CommandHandler
}

// Connection represents one websocket client.
type Connection struct {
	ID      string
	Role    string // "board" or "contestant"
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time

	// BuzzState tags this client's last buzz press until the mirror
	// confirms it, so "buzzing..." never sticks past the bounded wait.
	BuzzState *optimistic.Tracker

	pendingMu     sync.Mutex
	pendingTeam   string
	pendingMember string
	pendingTS     int64
}

// ConnectionConfig holds configuration for websocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// CommandHandler executes a mutation command received from a client.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd ClientCommand) error
}

// DefaultConnectionConfig returns default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024, // commands can carry data-URL images
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new websocket connection manager.
func NewConnectionManager(config ConnectionConfig, commands CommandHandler) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan []byte, 256),
		commands:    commands,
	}
}

// Start begins processing broadcast messages.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a websocket and sends the
// initial snapshot so the client never renders from an empty mirror.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, role string, initEvent []byte) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Role:        role,
		Conn:        conn,
		Send:        make(chan []byte, 64),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
		BuzzState:   optimistic.NewTracker(),
	}

	cm.registerConnection(connection)

	if initEvent != nil {
		connection.Send <- initEvent
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("role", role).
		Msg("websocket connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; exists {
		delete(cm.connections, conn)
		close(conn.Send)

		log.Info().
			Str("connection_id", conn.ID).
			Str("role", conn.Role).
			Msg("connection unregistered")
	}
}

// Broadcast queues a pre-marshaled event for every connection.
func (cm *ConnectionManager) Broadcast(event []byte) {
	select {
	case cm.broadcastCh <- event:
	default:
		log.Warn().Msg("broadcast channel full, dropping message")
	}
}

func (cm *ConnectionManager) handleBroadcast(message []byte) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.Send <- message:
		default:
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().Int("connections", len(targets)).Msg("snapshot broadcasted")
}

// ReconcileBuzzes reconciles every connection's predicted buzz against the
// authoritative snapshot that was just broadcast.
func (cm *ConnectionManager) ReconcileBuzzes(snap board.Snapshot) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		conn.reconcileBuzz(snap)
	}
}

// ConnectionStats returns statistics about active connections.
func (cm *ConnectionManager) ConnectionStats() map[string]int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	roles := make(map[string]int)
	pending := 0
	for conn := range cm.connections {
		roles[conn.Role]++
		if conn.BuzzState.State() == optimistic.StatePending {
			pending++
		}
	}
	roles["total"] = len(cm.connections)
	roles["pending_buzzes"] = pending
	return roles
}

// writePump handles sending messages to the websocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the websocket connection.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage parses and dispatches one mutation command from the
// client. Failures are logged, not echoed: the client converges (or not)
// through the next snapshot broadcast, the same way the store surfaces state.
func (c *Connection) handleClientMessage(message []byte) {
	var cmd ClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Msg("dropping malformed client command")
		return
	}

	if err := c.Manager.commands.HandleCommand(context.Background(), cmd); err != nil {
		log.Error().
			Err(err).
			Str("connection_id", c.ID).
			Str("command", cmd.Type).
			Msg("client command failed")
		return
	}

	if cmd.Type == CmdBuzz {
		c.trackBuzz(cmd.TeamName, cmd.MemberName, cmd.Timestamp)
	}
}

// trackBuzz predicts this client's buzz press until the mirror confirms it.
func (c *Connection) trackBuzz(teamName, memberName string, timestamp int64) {
	c.pendingMu.Lock()
	c.pendingTeam = teamName
	c.pendingMember = memberName
	c.pendingTS = timestamp
	c.pendingMu.Unlock()
	c.BuzzState.MarkPending()
}

// reconcileBuzz checks the predicted press against an authoritative snapshot.
// A matching record confirms it; an emptied buzz list means the buzzers were
// reset and the prediction goes back to idle.
func (c *Connection) reconcileBuzz(snap board.Snapshot) {
	c.pendingMu.Lock()
	teamName, memberName, timestamp := c.pendingTeam, c.pendingMember, c.pendingTS
	c.pendingMu.Unlock()

	if teamName == "" {
		return
	}

	for _, team := range snap.Teams {
		if team.Name != teamName {
			continue
		}
		if len(team.Buzzes) == 0 {
			c.BuzzState.Reset()
			return
		}
		for _, record := range team.Buzzes {
			if record.MemberName == memberName && record.Timestamp == timestamp {
				c.BuzzState.Confirm()
				return
			}
		}
		return
	}
}
