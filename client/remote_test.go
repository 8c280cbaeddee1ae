package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func remoteFor(t *testing.T, srv *httptest.Server) Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	c, err := New(Config{Host: host, Port: port, Mode: ModeRemote}, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	return c
}

func TestBaseAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 8080, "http://127.0.0.1:8080"},
		{"localhost", 80, "http://localhost:80"},
		{"db.internal", 9999, "http://db.internal:9999"},
	}

	for _, tt := range tests {
		cfg := Config{Host: tt.host, Port: tt.port}
		if got := cfg.BaseAddress(); got != tt.want {
			t.Errorf("BaseAddress(%s, %d) = %q, want %q",
				tt.host, tt.port, got, tt.want)
		}
	}
}

func TestExecuteQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/query" {
				t.Errorf("path = %q, want /query", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}

			w.Write([]byte(`{"status": "ok", "rows": 3}`))
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	result, err := c.ExecuteQuery(context.Background(), "SELECT * FROM test")
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}

	if result == nil {
		t.Fatal("result is nil on success")
	}

	if result["status"] != "ok" {
		t.Errorf("status = %v, want ok", result["status"])
	}
}

func TestExecuteQueryConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())

	c := remoteFor(t, srv)
	srv.Close()

	_, err := c.ExecuteQuery(context.Background(), "SELECT * FROM test")
	if err == nil {
		t.Fatal("expected error for refused connection")
	}

	if !strings.Contains(err.Error(), "Failed to execute query") {
		t.Errorf("error %q does not name the operation", err)
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("error is not a TransportError: %T", err)
	}
}

func TestExecuteQueryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	_, err := c.ExecuteQuery(context.Background(), "SELECT * FROM test")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	if !strings.Contains(err.Error(), "Failed to execute query") {
		t.Errorf("error %q does not name the operation", err)
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error is not a TransportError: %T", err)
	}
}

func TestVectorSearchEchoesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/vector/search" {
				t.Errorf("path = %q, want /vector/search", r.URL.Path)
			}

			w.Write([]byte(`{"results": [{"id": 1, "score": 0.9}], "query": "q", "limit": 7}`))
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	result, err := c.VectorSearch(context.Background(), "q", 7)
	if err != nil {
		t.Fatalf("VectorSearch failed: %v", err)
	}

	if result.Limit != 7 {
		t.Errorf("limit = %d, want 7", result.Limit)
	}

	if len(result.Results) != 1 {
		t.Errorf("results = %d, want 1", len(result.Results))
	}
}

func TestVectorSearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	_, err := c.VectorSearch(context.Background(), "q", 5)
	if err == nil {
		t.Fatal("expected error for 503 response")
	}

	if !strings.Contains(err.Error(), "Failed to perform vector search") {
		t.Errorf("error %q does not name the operation", err)
	}
}

func TestSubscribeStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/stream/subscribe" {
				t.Errorf("path = %q, want /stream/subscribe", r.URL.Path)
			}

			w.Write([]byte(`{"subscription_id": "sub_123", "status": "active"}`))
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	sub, err := c.SubscribeStream(context.Background(), "topic_x")
	if err != nil {
		t.Fatalf("SubscribeStream failed: %v", err)
	}

	if sub.ID != "sub_123" {
		t.Errorf("id = %q, want sub_123", sub.ID)
	}
	if sub.Topic != "topic_x" {
		t.Errorf("topic = %q, want topic_x", sub.Topic)
	}
	if sub.Status != "active" {
		t.Errorf("status = %q, want active", sub.Status)
	}
}

func TestSubscribeStreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := remoteFor(t, srv)

	_, err := c.SubscribeStream(context.Background(), "topic_x")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	if !strings.Contains(err.Error(), "Failed to subscribe to stream") {
		t.Errorf("error %q does not name the operation", err)
	}
}

func TestSubscribeStreamEmptyAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{}`))
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	sub, err := c.SubscribeStream(context.Background(), "topic_x")
	if err != nil {
		t.Fatalf("SubscribeStream failed: %v", err)
	}

	if sub.ID != "unknown" {
		t.Errorf("id = %q, want unknown", sub.ID)
	}
	if sub.Status != "unknown" {
		t.Errorf("status = %q, want unknown", sub.Status)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("path = %q, want /health", r.URL.Path)
			}
			if r.Method != http.MethodGet {
				t.Errorf("method = %q, want GET", r.Method)
			}

			w.Write([]byte(`{"status": "healthy"}`))
		},
	))
	defer srv.Close()

	c := remoteFor(t, srv)

	health, err := c.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}

	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
}

func TestHealthCheckFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())

	c := remoteFor(t, srv)
	srv.Close()

	_, err := c.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected error for refused connection")
	}

	if !strings.Contains(err.Error(), "Health check failed") {
		t.Errorf("error %q does not name the operation", err)
	}
}

func TestRemoteAdminOpsArePlaceholders(t *testing.T) {
	// No server at all: the administrative operations must still succeed
	// because they never touch the wire.
	c, err := New(Config{Host: "127.0.0.1", Port: 1, Mode: ModeRemote}, testLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()

	if err := c.CreateTable(ctx, "t", "id INT"); err != nil {
		t.Errorf("CreateTable failed: %v", err)
	}

	if err := c.InsertData(ctx, "t", map[string]any{"id": 1}); err != nil {
		t.Errorf("InsertData failed: %v", err)
	}

	ix, err := c.CreateVectorIndex(ctx, "t", "embedding")
	if err != nil {
		t.Fatalf("CreateVectorIndex failed: %v", err)
	}

	if err := ix.Delete(ctx); err != nil {
		t.Errorf("Delete failed: %v", err)
	}

	tables, err := c.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}

	if len(tables) == 0 {
		t.Error("expected representative table names")
	}
}
