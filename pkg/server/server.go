package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/gnahuy123/liftSim/pkg/session"
	"github.com/gorilla/websocket"
)

var Logger = logger.GetLogger()

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server exposes simulation sessions over HTTP and WebSocket
type Server struct {
	cfg      *config.Config
	sessions *session.Registry
	hub      *hub
	upgrader websocket.Upgrader
	handler  http.Handler
}

// New creates a server for the given registry
func New(cfg *config.Config, sessions *session.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		hub:      newHub(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/algorithms", s.handleAlgorithms)
	mux.HandleFunc("POST /api/create-session", s.handleCreateSession)
	mux.HandleFunc("POST /api/create-comparison", s.handleCreateComparison)
	mux.HandleFunc("POST /api/{id}/add-passenger", s.handleAddPassenger)
	mux.HandleFunc("GET /api/{id}/state", s.handleState)
	mux.HandleFunc("POST /api/{id}/move", s.handleMove)
	mux.HandleFunc("DELETE /api/{id}", s.handleDelete)
	mux.HandleFunc("GET /ws/{id}", s.handleWebSocket)
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.handler = s.cors(logRequests(mux))
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Expire closes the sockets of sessions removed by the registry sweeper
func (s *Server) Expire(ids []string) {
	for _, id := range ids {
		s.hub.closeSession(id, "session expired")
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Info().Msgf("Listening on %s", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	Logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	s.hub.closeAll("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
