package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"gymmando/internal/util"
	"gymmando/services/agent/internal/workout"
)

// turnRunner executes one workflow turn.
type turnRunner interface {
	Run(ctx context.Context, state workout.State) workout.State
}

// roomResolver maps a live media room to its bound user.
type roomResolver interface {
	Resolve(ctx context.Context, room string) (string, bool, error)
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	Graph       turnRunner
	Rooms       roomResolver
	TurnTimeout time.Duration
}

// Server exposes the voice-turn HTTP endpoint for the agent service.
type Server struct {
	graph       turnRunner
	rooms       roomResolver
	turnTimeout time.Duration
	mux         *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	timeout := cfg.TurnTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	s := &Server{
		graph:       cfg.Graph,
		rooms:       cfg.Rooms,
		turnTimeout: timeout,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog("agent", s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/turns", s.handleTurn)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type turnRequest struct {
	UserID     string `json:"user_id"`
	Room       string `json:"room"`
	Transcript string `json:"transcript"`
}

type turnResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req turnRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		if strings.TrimSpace(req.Room) == "" {
			writeError(w, http.StatusBadRequest, "user_id or room is required")
			return
		}
		if s.rooms == nil {
			writeError(w, http.StatusInternalServerError, "room registry not configured")
			return
		}
		resolved, ok, err := s.rooms.Resolve(r.Context(), req.Room)
		if err != nil {
			util.LoggerFromContext(r.Context()).Error("room resolution failed", "err", err, "room", req.Room)
			writeError(w, http.StatusBadGateway, "session registry unavailable")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "unknown room")
			return
		}
		userID = resolved
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.turnTimeout)
	defer cancel()
	state := s.graph.Run(ctx, workout.NewState(req.Transcript, userID))
	writeJSON(w, http.StatusOK, turnResponse{Reply: state.Response})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
