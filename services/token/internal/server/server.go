package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"gymmando/internal/ratelimit"
	"gymmando/internal/util"
	"gymmando/pkg/mediatoken"
)

// roomBinder records which user a room belongs to.
type roomBinder interface {
	Bind(ctx context.Context, room, userID string) error
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	Minter         *mediatoken.Minter
	Rooms          roomBinder
	Limiter        *ratelimit.FixedWindowLimiter
	TrustedProxies *util.TrustedProxies
	DefaultRoom    string
}

// Server exposes the media-session token endpoint.
type Server struct {
	minter         *mediatoken.Minter
	rooms          roomBinder
	limiter        *ratelimit.FixedWindowLimiter
	trustedProxies *util.TrustedProxies
	defaultRoom    string
	mux            *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	defaultRoom := strings.TrimSpace(cfg.DefaultRoom)
	if defaultRoom == "" {
		defaultRoom = "gym-room"
	}
	s := &Server{
		minter:         cfg.Minter,
		rooms:          cfg.Rooms,
		limiter:        cfg.Limiter,
		trustedProxies: cfg.TrustedProxies,
		defaultRoom:    defaultRoom,
		mux:            http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog("token", s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/tokens", s.handleToken)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Room        string `json:"room"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Room      string    `json:"room"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.limiter != nil && !s.limiter.Allow(util.ClientIP(r, s.trustedProxies)) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	room := strings.TrimSpace(req.Room)
	if room == "" {
		room = s.defaultRoom
	}

	token, expiresAt, err := s.minter.Mint(req.UserID, req.DisplayName, room)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("token mint failed", "err", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	if s.rooms != nil {
		if err := s.rooms.Bind(r.Context(), room, req.UserID); err != nil {
			// The agent can no longer resolve this room, so the token is
			// useless; fail the request rather than hand it out.
			util.LoggerFromContext(r.Context()).Error("room bind failed", "err", err, "room", room)
			writeError(w, http.StatusBadGateway, "session registry unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, Room: room, ExpiresAt: expiresAt})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
