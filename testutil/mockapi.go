// Package testutil provides a mock PowerHA Copilot API server and small
// helpers shared by tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ChatRequest is a recorded body from POST /chat
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Stream         bool   `json:"stream"`
}

// MockAPI is an in-memory API server covering the endpoints the CLI
// consumes. Responses are configurable per test; request bodies and auth
// headers are recorded for assertions.
type MockAPI struct {
	mu sync.Mutex

	// Configurable behavior
	ResponseText   string   // assistant text for /chat
	StreamChunks   []string // fragments for streaming /chat; defaults to ResponseText in one chunk
	ConversationID string   // conversation id returned by buffered /chat
	Actions        []string
	FailStatus     int    // when non-zero, every endpoint returns this status
	FailMessage    string // message field of the error envelope
	APIKey         string // key returned by /auth/login
	RefreshToken   string
	Username       string
	Organization   string

	// Recorded state
	chatRequests []ChatRequest
	lastAuth     string
	logoutCalls  int

	server *httptest.Server
}

// NewMockAPI starts a mock server. Callers must Close it.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		ResponseText:   "Hello, world!",
		ConversationID: "conv-1",
		APIKey:         "phc_test_key",
		RefreshToken:   "phc_test_refresh",
		Username:       "hauser",
		Organization:   "ziemacs",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/login", m.handleLogin)
	mux.HandleFunc("/v1/auth/me", m.handleWhoami)
	mux.HandleFunc("/v1/auth/logout", m.handleLogout)
	mux.HandleFunc("/v1/chat", m.handleChat)
	mux.HandleFunc("/v1/clusters", m.handleClusters)
	mux.HandleFunc("/v1/clusters/", m.handleClusterSubpath)
	mux.HandleFunc("/v1/conversations", m.handleConversations)
	mux.HandleFunc("/v1/operations", m.handleOperations)
	mux.HandleFunc("/v1/health", m.handleHealth)
	mux.HandleFunc("/v1/version", m.handleVersion)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the server's host-level URL (without the /v1 segment)
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts the server down
func (m *MockAPI) Close() {
	m.server.Close()
}

// LastAuth returns the most recent Authorization header value
func (m *MockAPI) LastAuth() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAuth
}

// ChatRequests returns recorded /chat bodies in arrival order
func (m *MockAPI) ChatRequests() []ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatRequest, len(m.chatRequests))
	copy(out, m.chatRequests)
	return out
}

// LogoutCalls reports how many times /auth/logout was hit
func (m *MockAPI) LogoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCalls
}

// record captures the auth header and applies the configured failure, if
// any. Returns false when the request was already answered.
func (m *MockAPI) record(w http.ResponseWriter, r *http.Request) bool {
	m.mu.Lock()
	m.lastAuth = r.Header.Get("Authorization")
	failStatus := m.FailStatus
	failMessage := m.FailMessage
	m.mu.Unlock()

	if failStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failStatus)
		if failMessage != "" {
			json.NewEncoder(w).Encode(map[string]interface{}{"message": failMessage})
		}
		return false
	}
	return true
}

func (m *MockAPI) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (m *MockAPI) user() map[string]interface{} {
	return map[string]interface{}{
		"username":     m.Username,
		"email":        m.Username + "@example.com",
		"organization": m.Organization,
		"role":         "operator",
	}
}

func (m *MockAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{
		"api_key":       m.APIKey,
		"refresh_token": m.RefreshToken,
		"user":          m.user(),
	})
}

func (m *MockAPI) handleWhoami(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{"user": m.user()})
}

func (m *MockAPI) handleLogout(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.logoutCalls++
	m.mu.Unlock()
	if !m.record(w, r) {
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (m *MockAPI) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	json.NewDecoder(r.Body).Decode(&req)
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	m.mu.Unlock()

	if !m.record(w, r) {
		return
	}

	if req.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := m.StreamChunks
		if chunks == nil {
			chunks = []string{m.ResponseText}
		}
		fmt.Fprint(w, ": stream start\n")
		for _, chunk := range chunks {
			fmt.Fprintf(w, "data: %s\n", chunk)
		}
		return
	}

	m.writeJSON(w, map[string]interface{}{
		"response":        m.ResponseText,
		"conversation_id": m.ConversationID,
		"actions":         m.Actions,
	})
}

func (m *MockAPI) handleClusters(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{
		"clusters": []map[string]interface{}{
			{"id": "prod-ha", "name": "Production HA", "status": "online", "node_count": 2, "resource_groups": 3},
			{"id": "dr-site", "name": "DR Site", "status": "degraded", "node_count": 2, "resource_groups": 1},
		},
	})
}

// handleClusterSubpath serves /v1/clusters/{id}[/...]
func (m *MockAPI) handleClusterSubpath(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	path := r.URL.Path

	switch {
	case strings.HasSuffix(path, "/status"):
		m.writeJSON(w, map[string]interface{}{
			"name":   "Production HA",
			"status": "online",
			"nodes": []map[string]interface{}{
				{"name": "node1", "hostname": "ha-node1", "status": "active", "is_primary": true, "cpu_usage": 21.5, "memory_usage": 48.0},
				{"name": "node2", "hostname": "ha-node2", "status": "standby", "is_primary": false, "cpu_usage": 3.1, "memory_usage": 22.4},
			},
			"resource_groups": []string{"db_rg", "app_rg"},
		})
	case strings.HasSuffix(path, "/health"):
		m.writeJSON(w, map[string]interface{}{
			"health_score":    87,
			"health_status":   "healthy",
			"issues":          []string{},
			"recommendations": []string{"enable heartbeat over disk"},
		})
	case strings.HasSuffix(path, "/nodes"):
		m.writeJSON(w, map[string]interface{}{
			"nodes": []map[string]interface{}{
				{"name": "node1", "hostname": "ha-node1", "status": "active", "is_primary": true},
			},
		})
	case strings.HasSuffix(path, "/resource-groups"):
		m.writeJSON(w, map[string]interface{}{
			"resource_groups": []map[string]interface{}{
				{"name": "db_rg", "state": "online", "node": "node1"},
			},
		})
	case strings.HasSuffix(path, "/failover"):
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		m.writeJSON(w, map[string]interface{}{
			"operation_id": "op-42",
			"status":       "started",
			"force":        body["force"],
			"target_node":  body["target_node"],
		})
	case strings.Contains(path, "/resource-groups/"):
		// action dispatch: /clusters/{id}/resource-groups/{rg}/{action}
		m.writeJSON(w, map[string]interface{}{
			"operation_id": "op-43",
			"status":       "accepted",
			"path":         path,
		})
	default:
		m.writeJSON(w, map[string]interface{}{
			"id":     strings.TrimPrefix(path, "/v1/clusters/"),
			"name":   "Production HA",
			"status": "online",
		})
	}
}

func (m *MockAPI) handleConversations(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{
		"conversations": []map[string]interface{}{
			{"id": "conv-1", "title": "cluster health", "created_at": "2026-08-20T10:00:00Z", "message_count": 4},
		},
		"limit":  r.URL.Query().Get("limit"),
		"offset": r.URL.Query().Get("offset"),
	})
}

func (m *MockAPI) handleOperations(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	ops := []map[string]interface{}{
		{"id": "op-42", "cluster_id": "prod-ha", "type": "failover", "status": "completed", "created_at": "2026-08-19T08:00:00Z"},
	}
	if filter := r.URL.Query().Get("cluster_id"); filter != "" && filter != "prod-ha" {
		ops = nil
	}
	m.writeJSON(w, map[string]interface{}{"operations": ops})
}

func (m *MockAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{"status": "ok"})
}

func (m *MockAPI) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !m.record(w, r) {
		return
	}
	m.writeJSON(w, map[string]interface{}{"version": "1.4.2"})
}
