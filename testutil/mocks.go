// Package testutil provides mock HTTP servers for the external services the
// CLI talks to: Google's OAuth token endpoint, the YouTube Data API, an
// AzuraCast instance, and Discord webhooks.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockTokenServer mocks the OAuth token endpoint. It counts exchanges so
// tests can assert how many refreshes actually hit the network.
type MockTokenServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests int

	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	FailWith     int // non-zero: respond with this HTTP status instead
}

// NewMockTokenServer creates a mock token endpoint returning accessToken.
func NewMockTokenServer(t *testing.T, accessToken string) *MockTokenServer {
	t.Helper()
	m := &MockTokenServer{AccessToken: accessToken, ExpiresIn: 3600}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests++
		fail := m.FailWith
		m.mu.Unlock()
		if fail != 0 {
			http.Error(w, `{"error":"invalid_grant"}`, fail)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"access_token": m.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   m.ExpiresIn,
		}
		if m.RefreshToken != "" {
			resp["refresh_token"] = m.RefreshToken
		}
		_ = json.NewEncoder(w).Encode(resp) //nolint:errcheck // test mock response
	}))
	t.Cleanup(m.Close)
	return m
}

// Requests returns how many token exchanges the server has seen.
func (m *MockTokenServer) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// MockYouTubeServer mocks YouTube Data API v3 endpoints. Handlers are keyed
// by URL path (e.g. "/youtube/v3/liveStreams").
type MockYouTubeServer struct {
	*httptest.Server
	Handlers map[string]http.HandlerFunc
}

// NewMockYouTubeServer creates a mock API server; unknown paths return 404
// in the API's error envelope.
func NewMockYouTubeServer(t *testing.T) *MockYouTubeServer {
	t.Helper()
	m := &MockYouTubeServer{Handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := m.Handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		WriteAPIError(w, http.StatusNotFound, "notFound", "resource not found")
	}))
	t.Cleanup(m.Close)
	return m
}

// Handle registers a handler for one API path.
func (m *MockYouTubeServer) Handle(path string, h http.HandlerFunc) {
	m.Handlers[path] = h
}

// HandleJSON registers a handler that always responds with v.
func (m *MockYouTubeServer) HandleJSON(path string, v any) {
	m.Handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test mock response
	}
}

// WriteAPIError writes a Google API error envelope, the shape googleapi
// parses into *googleapi.Error.
func WriteAPIError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // test mock response
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors": []map[string]string{
				{"reason": reason, "message": message},
			},
		},
	})
}

// MockAzuraCastServer mocks an AzuraCast station API and records which
// control actions were invoked.
type MockAzuraCastServer struct {
	*httptest.Server

	mu      sync.Mutex
	actions []string

	StationName string
	FailWith    int // non-zero: control endpoints respond with this status
}

// NewMockAzuraCastServer creates a mock AzuraCast server for one station.
func NewMockAzuraCastServer(t *testing.T, stationID string) *MockAzuraCastServer {
	t.Helper()
	m := &MockAzuraCastServer{StationName: "Test Station"}
	base := "/api/station/" + stationID
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") == "" {
			http.Error(w, `{"message":"API key required"}`, http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case base:
			_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // test mock response
				"name": m.StationName, "shortcode": stationID, "backend": "liquidsoap", "frontend": "icecast",
			})
		case base + "/status":
			_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // test mock response
				"backend_running": true, "frontend_running": true,
			})
		case "/api/nowplaying/" + stationID:
			_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // test mock response
				"now_playing": map[string]any{"song": map[string]string{"artist": "Test", "title": "Song"}},
				"listeners":   map[string]int{"current": 3},
			})
		case base + "/backend/restart", base + "/backend/stop", base + "/backend/start", base + "/frontend/restart":
			m.mu.Lock()
			fail := m.FailWith
			if fail == 0 {
				m.actions = append(m.actions, r.URL.Path[len(base)+1:])
			}
			m.mu.Unlock()
			if fail != 0 {
				http.Error(w, `{"message":"boom"}`, fail)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Service restarted", "success": true}) //nolint:errcheck // test mock response
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(m.Close)
	return m
}

// Actions returns the control actions performed, in order.
func (m *MockAzuraCastServer) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}

// MockDiscordServer mocks a Discord webhook and records embed titles.
type MockDiscordServer struct {
	*httptest.Server

	mu     sync.Mutex
	titles []string
}

// NewMockDiscordServer creates a mock webhook endpoint.
func NewMockDiscordServer(t *testing.T) *MockDiscordServer {
	t.Helper()
	m := &MockDiscordServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Embeds []struct {
				Title string `json:"title"`
			} `json:"embeds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		for _, e := range payload.Embeds {
			m.titles = append(m.titles, e.Title)
		}
		m.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(m.Close)
	return m
}

// Titles returns the embed titles received, in order.
func (m *MockDiscordServer) Titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.titles...)
}
