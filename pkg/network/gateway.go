package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-sol/pkg/command"
	"github.com/opd-ai/go-sol/pkg/config"
	"github.com/opd-ai/go-sol/pkg/logging"
)

// CommandSink is the simulation surface the gateway needs: it forwards
// validated envelopes and never touches simulation state directly.
type CommandSink interface {
	SubmitCommand(cmd command.Command) bool
}

// Ack is the gateway's reply to each submitted command envelope.
type Ack struct {
	Sequence uint32 `json:"sequence"`
	Accepted bool   `json:"accepted"`
}

// client tracks one connected player. Its mutex serializes all writes to
// the connection: acks come from the read goroutine while broadcasts come
// from the tick loop, and the websocket permits one concurrent writer.
type client struct {
	playerID string
	mu       sync.Mutex
}

// Gateway accepts WebSocket connections from players and forwards their
// command envelopes into the simulation. It also serves the wire schema so
// client implementations can validate their envelopes against the server's.
type Gateway struct {
	sink     CommandSink
	env      *config.EnvironmentConfig
	submit   *SubmitService
	upgrader websocket.Upgrader
	logger   *logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

// NewGateway creates a gateway bound to the given simulation sink.
func NewGateway(sink CommandSink, env *config.EnvironmentConfig, logger *logging.Logger) *Gateway {
	return &Gateway{
		sink:   sink,
		env:    env,
		submit: NewSubmitService(env),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]*client),
	}
}

// Routes registers the gateway's HTTP handlers on the mux.
func (g *Gateway) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.handleWS)
	mux.HandleFunc("/schema", g.handleSchema)
}

// handleSchema serves the JSON Schema for command envelopes.
func (g *Gateway) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(command.WireSchema()); err != nil {
		g.logger.Error(r.Context(), "failed to encode wire schema", err)
	}
}

// handleWS upgrades the connection and runs the client's read loop. Each
// client identifies itself with an id query parameter; the envelope's
// player ID must match it, preventing command spoofing between clients.
func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("id")
	if playerID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	if g.ClientCount() >= g.env.MaxClients {
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(r.Context(), "websocket upgrade failed",
			"player", playerID, "error", err)
		return
	}
	cl := g.register(conn, playerID)

	g.logger.Info(r.Context(), "client connected",
		"player", playerID, "remote", conn.RemoteAddr().String())

	go g.readLoop(conn, cl)
}

func (g *Gateway) register(conn *websocket.Conn, playerID string) *client {
	g.mu.Lock()
	defer g.mu.Unlock()
	cl := &client{playerID: playerID}
	g.clients[conn] = cl
	return cl
}

func (g *Gateway) unregister(conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, conn)
}

// readLoop consumes command envelopes until the connection drops. Envelopes
// that fail to decode or claim another player's ID are acked as rejected;
// everything else goes through the simulation's submission path.
func (g *Gateway) readLoop(conn *websocket.Conn, cl *client) {
	defer func() {
		g.unregister(conn)
		conn.Close()
		g.logger.Info(context.Background(), "client disconnected", "player", cl.playerID)
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(g.env.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command.Command
		accepted := false
		if jsonErr := json.Unmarshal(data, &cmd); jsonErr == nil && cmd.PlayerID == cl.playerID {
			accepted = g.sink.SubmitCommand(cmd)
		}

		ack := Ack{Sequence: cmd.Sequence, Accepted: accepted}
		if err := g.writeJSON(conn, cl, ack); err != nil {
			g.logger.Warn(context.Background(), "failed to ack command",
				"player", cl.playerID, "error", err)
			return
		}
	}
}

// writeJSON sends a message through the circuit breaker so a wedged client
// trips open instead of blocking indefinitely. The client mutex keeps the
// ack from interleaving with a broadcast on the same connection.
func (g *Gateway) writeJSON(conn *websocket.Conn, cl *client, v interface{}) error {
	return g.submit.Execute(context.Background(), func() error {
		cl.mu.Lock()
		defer cl.mu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(g.env.WriteTimeout))
		return conn.WriteJSON(v)
	})
}

// Broadcast sends a snapshot payload to every connected client. Clients
// whose writes fail are dropped from the registry.
func (g *Gateway) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		g.logger.Error(context.Background(), "failed to marshal broadcast", err)
		return
	}

	type target struct {
		conn *websocket.Conn
		cl   *client
	}
	g.mu.Lock()
	targets := make([]target, 0, len(g.clients))
	for conn, cl := range g.clients {
		targets = append(targets, target{conn: conn, cl: cl})
	}
	g.mu.Unlock()

	for _, tg := range targets {
		tg.cl.mu.Lock()
		tg.conn.SetWriteDeadline(time.Now().Add(g.env.WriteTimeout))
		err := tg.conn.WriteMessage(websocket.TextMessage, data)
		tg.cl.mu.Unlock()
		if err != nil {
			g.unregister(tg.conn)
			tg.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (g *Gateway) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// Addr returns the listen address from environment configuration.
func (g *Gateway) Addr() string {
	return fmt.Sprintf("%s:%d", g.env.ServerAddr, g.env.ServerPort)
}
