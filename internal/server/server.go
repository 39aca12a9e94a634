// Package server provides the HTTP server for the AirSketch drawing app.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/store"
)

// shutdownTimeout bounds how long Serve waits for open requests on exit.
const shutdownTimeout = 5 * time.Second

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the AirSketch application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	input  *InputHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if a := s.config.App; a != nil {
		controls := api.NewControlHandler(a)
		s.mux.HandleFunc("/api/commands", controls.Commands)
		s.mux.HandleFunc("/api/controls", controls.Controls)
		s.mux.HandleFunc("/api/keys", controls.Keys)
		s.mux.HandleFunc("/api/tool", controls.Tool)
		s.mux.HandleFunc("/api/canvas", controls.Canvas)
		s.mux.HandleFunc("/api/history", controls.History)

		s.input = NewInputHandler(a)
		s.mux.Handle("/api/input", s.input)

		// Register camera stream endpoint if the camera is enabled
		if a.Camera() != nil {
			s.mux.Handle("/api/stream", NewStreamHandler(a.Preview()))
		}

		if s.config.Store != nil {
			drawings := api.NewDrawingHandler(s.config.Store, a)
			s.mux.Handle("/api/drawings", drawings)
			s.mux.Handle("/api/drawings/", drawings)
		}
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down and
// disconnects input clients.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
		// Long-lived streams end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down HTTP server")
	// Hijacked websocket connections are not tracked by Shutdown.
	s.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close disconnects all input clients.
func (s *Server) Close() {
	if s.input != nil {
		s.input.Close()
	}
}
