// Package server exposes a counting session over HTTP and WebSocket so a
// second screen or a script can record cards and follow the counts live.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/stacktrace/internal/session"
)

// Server broadcasts session snapshots to every connected client
type Server struct {
	session     *session.Session
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	clock       quartz.Clock
	mu          sync.RWMutex
	httpServer  *http.Server
	closed      bool
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for message timestamps and keepalive pings
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// NewServer creates a server for the session and subscribes to its changes
func NewServer(sess *session.Session, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		session: sess,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// any local display may attach
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sess.OnChange(s.broadcast)
	return s
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/systems", s.handleSystems)
	return mux
}

// Serve accepts connections on the listener until Shutdown is called. It
// returns immediately if Shutdown has already been called.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = listener.Close() // Ignore close errors, nothing was served
		return nil
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting server", "addr", listener.Addr().String())
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and closes every WebSocket connection
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	if ok {
		_ = conn.Close() // Ignore close errors during unregistration
		s.logger.Info("Client disconnected", "total", total)
	}
}

// broadcast sends a snapshot to every connected client
func (s *Server) broadcast(snapshot session.Snapshot) {
	msg, err := NewMessage(MessageTypeState, snapshot, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create state message", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Warn("Failed to send state to client", "error", err)
			continue
		}
		count++
	}
	s.logger.Debug("Broadcast state", "cards_seen", snapshot.State.CardsSeen, "recipients", count)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.session, s.logger, s.clock)
	conn.Start()

	// Greet with the current state so the client can render immediately.
	// Registering inside Observe keeps the greeting ahead of every later
	// broadcast.
	s.session.Observe(func(snapshot session.Snapshot) {
		s.register(conn)
		conn.sendState(snapshot)
	})

	go func() {
		<-conn.Done()
		s.unregister(conn)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// handleState returns the current snapshot as JSON
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.Snapshot())
}

// handleSystems lists the registered counting systems
func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	systems := s.session.Registry().Systems()
	out := make([]SystemData, 0, len(systems))
	for _, system := range systems {
		weights := make(map[string]float64, len(system.Weights))
		for rank, weight := range system.Weights {
			weights[rank.String()] = weight
		}
		out = append(out, SystemData{
			ID:          system.ID,
			Name:        system.Name,
			Description: system.Description,
			Balanced:    system.Balanced(),
			Level:       system.Level(),
			Weights:     weights,
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
