package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/lastmove/game/config"
	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
	"github.com/wricardo/lastmove/transport/websocket"
)

// MatchSource is the read-only view of a match the server exposes.
// *match.Match satisfies it.
type MatchSource interface {
	ID() string
	Status() match.Status
	State() engine.State
	HistoryPage(opts match.HistoryOptions) *match.HistoryResponse
	Result() (*match.Result, bool)
}

// ConfigSource lists and loads presets. *config.Manager satisfies it.
type ConfigSource interface {
	ListConfigs() ([]*config.ConfigInfo, error)
	LoadConfig(name string) (*engine.GameConfig, error)
}

// Server represents the spectator HTTP server
type Server struct {
	match   MatchSource
	configs ConfigSource
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new spectator server. configs may be nil, in which
// case the config routes answer 503.
func NewServer(m MatchSource, configs ConfigSource, hub *websocket.Hub) *Server {
	s := &Server{
		match:   m,
		configs: configs,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes. Everything is read-only.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/match", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/match/history", s.handleGetHistory).Methods("GET")

	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Observe forwards match events to websocket spectators
func (s *Server) Observe(ev match.Event) {
	s.hub.Observe(ev)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns once the listener is closed.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", ln.Addr().String()).Info("Spectator server listening")
		errc <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Spectator server shutdown error")
		return err
	}
	log.Info("Spectator server stopped")
	return nil
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Debug("Failed to write response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Match Handlers

type matchResponse struct {
	MatchID string        `json:"match_id"`
	Status  match.Status  `json:"status"`
	State   engine.State  `json:"state"`
	Result  *match.Result `json:"result,omitempty"`
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	resp := matchResponse{
		MatchID: s.match.ID(),
		Status:  s.match.Status(),
		State:   s.match.State(),
	}
	if result, ok := s.match.Result(); ok {
		resp.Result = result
	}

	respondJSON(w, http.StatusOK, resp)
}

// maxHistoryPage keeps page*limit within int for the largest page size
const maxHistoryPage = math.MaxInt / 100

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := match.HistoryOptions{}

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 || page > maxHistoryPage {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("page must be an integer between 1 and %d", maxHistoryPage))
			return
		}
		opts.Page = page
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	respondJSON(w, http.StatusOK, s.match.HistoryPage(opts))
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	if s.configs == nil {
		respondError(w, http.StatusServiceUnavailable, "no config directory")
		return
	}

	configs, err := s.configs.ListConfigs()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.configs == nil {
		respondError(w, http.StatusServiceUnavailable, "no config directory")
		return
	}

	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.configs.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("match")
	if matchID == "" {
		http.Error(w, "match parameter required", http.StatusBadRequest)
		return
	}
	if matchID != s.match.ID() {
		http.Error(w, "Unknown match", http.StatusNotFound)
		return
	}

	state := s.match.State()
	s.hub.ServeWS(w, r, matchID, &state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"match":  string(s.match.Status()),
	})
}
