package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymmando/services/agent/internal/workout"
)

type echoGraph struct {
	lastUserID string
}

func (e *echoGraph) Run(_ context.Context, state workout.State) workout.State {
	e.lastUserID = state.UserID
	state.Response = "echo: " + state.Utterance
	return state
}

type fakeRooms struct {
	userID string
	ok     bool
	err    error
}

func (f *fakeRooms) Resolve(_ context.Context, _ string) (string, bool, error) {
	return f.userID, f.ok, f.err
}

func postTurn(t *testing.T, srv *httptest.Server, body map[string]any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(srv.URL+"/v1/turns", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post turn: %v", err)
	}
	return resp
}

func TestTurnWithExplicitUserID(t *testing.T) {
	graph := &echoGraph{}
	srv := httptest.NewServer(New(Config{Graph: graph}).Router())
	defer srv.Close()

	resp := postTurn(t, srv, map[string]any{"user_id": "user-1", "transcript": "log 3 sets of squats"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Reply != "echo: log 3 sets of squats" {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}
	if graph.lastUserID != "user-1" {
		t.Fatalf("graph saw user %q", graph.lastUserID)
	}
}

func TestTurnResolvesRoomToUser(t *testing.T) {
	graph := &echoGraph{}
	srv := httptest.NewServer(New(Config{
		Graph: graph,
		Rooms: &fakeRooms{userID: "user-7", ok: true},
	}).Router())
	defer srv.Close()

	resp := postTurn(t, srv, map[string]any{"room": "gym-room", "transcript": "hi"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if graph.lastUserID != "user-7" {
		t.Fatalf("graph saw user %q", graph.lastUserID)
	}
}

func TestTurnUnknownRoom(t *testing.T) {
	srv := httptest.NewServer(New(Config{
		Graph: &echoGraph{},
		Rooms: &fakeRooms{},
	}).Router())
	defer srv.Close()

	resp := postTurn(t, srv, map[string]any{"room": "nope", "transcript": "hi"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTurnRegistryFailure(t *testing.T) {
	srv := httptest.NewServer(New(Config{
		Graph: &echoGraph{},
		Rooms: &fakeRooms{err: errors.New("redis down")},
	}).Router())
	defer srv.Close()

	resp := postTurn(t, srv, map[string]any{"room": "gym-room", "transcript": "hi"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestTurnValidation(t *testing.T) {
	srv := httptest.NewServer(New(Config{Graph: &echoGraph{}}).Router())
	defer srv.Close()

	resp := postTurn(t, srv, map[string]any{"user_id": "user-1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing transcript: status = %d", resp.StatusCode)
	}

	resp = postTurn(t, srv, map[string]any{"transcript": "hi"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing identity: status = %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/turns", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get turns: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", getResp.StatusCode)
	}
}
