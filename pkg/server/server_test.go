package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/gnahuy123/liftSim/pkg/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	logger.SetLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	for _, fn := range mutate {
		fn(cfg)
	}
	srv := httptest.NewServer(New(cfg, session.NewRegistry(cfg.SessionTimeout, cfg.MinFloor)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
	return resp.StatusCode, payload
}

func createSession(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()
	status, payload := do(t, srv, http.MethodPost, "/api/create-session", body)
	if status != http.StatusOK {
		t.Fatalf("create-session: status %d: %v", status, payload)
	}
	return payload["session_id"].(string)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, payload := do(t, srv, http.MethodGet, "/health", "")
	if status != http.StatusOK || payload["status"] != "healthy" {
		t.Errorf("status %d: %v", status, payload)
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.MaxFloor = 15 })
	_, payload := do(t, srv, http.MethodGet, "/api/config", "")

	if payload["max_floors"] != 15.0 || payload["min_floor"] != 0.0 || payload["default_algorithm"] != "scan" {
		t.Errorf("config = %v", payload)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	_, payload := do(t, srv, http.MethodGet, "/api/algorithms", "")

	algorithms := payload["algorithms"].([]any)
	var names []string
	for _, a := range algorithms {
		entry := a.(map[string]any)
		if entry["description"] == "" {
			t.Errorf("%v has no description", entry["name"])
		}
		names = append(names, entry["name"].(string))
	}
	if strings.Join(names, ",") != "scan,sstf,nearest" {
		t.Errorf("algorithms = %v", names)
	}
}

func TestCreateSessionDefaults(t *testing.T) {
	srv := newTestServer(t)
	status, payload := do(t, srv, http.MethodPost, "/api/create-session", "")

	if status != http.StatusOK {
		t.Fatalf("status %d: %v", status, payload)
	}
	if payload["algorithm"] != "scan" || payload["max_floors"] != 10.0 || payload["type"] != "single" {
		t.Errorf("payload = %v", payload)
	}
	if payload["session_id"] == "" {
		t.Error("missing session id")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"bad json", "/api/create-session", `{"algorithm":`},
		{"negative floors", "/api/create-session", `{"max_floors": -1}`},
		{"comparison negative floors", "/api/create-comparison", `{"max_floors": -4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := do(t, srv, http.MethodPost, tt.path, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status %d: %v", status, payload)
			}
			if payload["detail"] == nil {
				t.Error("missing detail")
			}
		})
	}
}

func TestCreateComparison(t *testing.T) {
	srv := newTestServer(t)
	status, payload := do(t, srv, http.MethodPost, "/api/create-comparison",
		`{"algorithm1":"sstf","algorithm2":"warp","max_floors":20}`)

	if status != http.StatusOK {
		t.Fatalf("status %d: %v", status, payload)
	}
	if payload["algorithm1"] != "sstf" || payload["algorithm2"] != "scan" || payload["max_floors"] != 20.0 || payload["type"] != "comparison" {
		t.Errorf("payload = %v", payload)
	}

	id := payload["session_id"].(string)
	_, state := do(t, srv, http.MethodGet, "/api/"+id+"/state", "")
	if state["type"] != "comparison" || state["building1"] == nil || state["building2"] == nil {
		t.Errorf("state = %v", state)
	}
}

func TestAddPassengerAndMove(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, `{"algorithm":"nearest"}`)

	status, payload := do(t, srv, http.MethodPost, "/api/"+id+"/add-passenger",
		`{"passenger_id":"P1","from_level":0,"to_level":4}`)
	if status != http.StatusOK || payload["message"] != "Request added" {
		t.Fatalf("status %d: %v", status, payload)
	}

	_, state := do(t, srv, http.MethodPost, "/api/"+id+"/move", "")
	if state["type"] != "single" || state["global_tick"] != 1.0 || state["algorithm"] != "nearest" {
		t.Errorf("state after move = %v", state)
	}

	passengers := state["active_passengers"].([]any)
	if len(passengers) != 1 {
		t.Fatalf("passengers = %v", passengers)
	}
	p := passengers[0].(map[string]any)
	if p["passenger_id"] != "P1_A" || p["status"] != "MOVING" {
		t.Errorf("passenger = %v", p)
	}

	liftA := state["lift_a"].(map[string]any)
	if liftA["level"] != 1.0 || liftA["direction"] != "up" {
		t.Errorf("lift_a = %v", liftA)
	}
}

func TestAddPassengerValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "")

	body := `{"passenger_id":"P1","from_level":2,"to_level":5}`
	if status, _ := do(t, srv, http.MethodPost, "/api/"+id+"/add-passenger", body); status != http.StatusOK {
		t.Fatalf("%s: status %d", body, status)
	}

	tests := []struct {
		name string
		body string
	}{
		{"duplicate", `{"passenger_id":"P1","from_level":3,"to_level":4}`},
		{"out of range", `{"passenger_id":"P2","from_level":0,"to_level":11}`},
		{"same floor", `{"passenger_id":"P3","from_level":4,"to_level":4}`},
		{"missing floor", `{"passenger_id":"P4","from_level":4}`},
		{"missing id", `{"from_level":1,"to_level":4}`},
		{"bad json", `not json`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := do(t, srv, http.MethodPost, "/api/"+id+"/add-passenger", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status %d: %v", status, payload)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/missing/state", ""},
		{http.MethodPost, "/api/missing/move", ""},
		{http.MethodPost, "/api/missing/add-passenger", `{"passenger_id":"P1","from_level":0,"to_level":1}`},
		{http.MethodDelete, "/api/missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, payload := do(t, srv, tt.method, tt.path, tt.body)
			if status != http.StatusNotFound || payload["detail"] != "Invalid session ID" {
				t.Errorf("status %d: %v", status, payload)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "")

	if status, _ := do(t, srv, http.MethodDelete, "/api/"+id, ""); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status, _ := do(t, srv, http.MethodGet, "/api/"+id+"/state", ""); status != http.StatusNotFound {
		t.Errorf("state after delete: status %d", status)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/create-session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>lifts</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, func(c *config.Config) { c.StaticDir = dir })

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "lifts") {
		t.Errorf("status %d: %s", resp.StatusCode, body)
	}
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsState struct {
	Type string `json:"type"`
	Data struct {
		Type       string `json:"type"`
		GlobalTick int    `json:"global_tick"`
	} `json:"data"`
}

func readState(t *testing.T, conn *websocket.Conn) wsState {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsState
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestWebSocketBroadcastsMoves(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "")

	first := dial(t, srv, id)
	second := dial(t, srv, id)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readState(t, conn)
		if msg.Type != "state_update" || msg.Data.Type != "single" || msg.Data.GlobalTick != 0 {
			t.Fatalf("initial message = %+v", msg)
		}
	}

	if err := first.WriteMessage(websocket.TextMessage, []byte("move")); err != nil {
		t.Fatal(err)
	}
	for _, conn := range []*websocket.Conn{first, second} {
		if msg := readState(t, conn); msg.Data.GlobalTick != 1 {
			t.Errorf("broadcast = %+v", msg)
		}
	}

	// HTTP moves reach websocket watchers too
	do(t, srv, http.MethodPost, "/api/"+id+"/move", "")
	if msg := readState(t, second); msg.Data.GlobalTick != 2 {
		t.Errorf("broadcast after http move = %+v", msg)
	}
}

func TestWebSocketSkipsStaleStates(t *testing.T) {
	cfg := config.Default()
	sessions := session.NewRegistry(cfg.SessionTimeout, cfg.MinFloor)
	s := New(cfg, sessions)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	id := createSession(t, srv, "")
	conn := dial(t, srv, id)
	readState(t, conn)

	var states []building.StateView
	for i := 0; i < 3; i++ {
		state, err := sessions.Tick(id)
		if err != nil {
			t.Fatal(err)
		}
		states = append(states, state)
	}

	// the move to tick 2 broadcasts before the move to tick 1
	s.hub.broadcast(id, stateUpdate(states[1]))
	s.hub.broadcast(id, stateUpdate(states[0]))
	s.hub.broadcast(id, stateUpdate(states[2]))

	for _, want := range []int{2, 3} {
		if msg := readState(t, conn); msg.Data.GlobalTick != want {
			t.Fatalf("global_tick = %d, want %d", msg.Data.GlobalTick, want)
		}
	}
}

func TestWebSocketIgnoresUnknownCommands(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "")
	conn := dial(t, srv, id)
	readState(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte("jump"))
	conn.WriteMessage(websocket.TextMessage, []byte("move"))
	if msg := readState(t, conn); msg.Data.GlobalTick != 1 {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %+v", resp)
	}
}

func TestWebSocketClosedOnDelete(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "")
	conn := dial(t, srv, id)
	readState(t, conn)

	do(t, srv, http.MethodDelete, "/api/"+id, "")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected a normal close, got %v", err)
	}
}
