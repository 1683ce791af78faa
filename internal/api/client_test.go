package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nickpending/reelfeed/internal/catalog"
)

// newTestStore starts a fake content store API
func newTestStore(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:        srv.URL + "/",
		APIKey:         "test-key",
		Timeout:        2 * time.Second,
		Logger:         zerolog.Nop(),
		BreakerTimeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func contentStoreHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/folders/videos/items":
			w.Write([]byte(`{"items":[{"ref":"videos/a.mp4","name":"a.mp4"},{"ref":"videos/b.mp4"}]}`))
		case "/api/objects/url":
			ref := r.URL.Query().Get("ref")
			if ref == "videos/missing.mp4" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"url":"https://cdn.example.com/` + ref + `?sig=xyz"}`))
		case "/api/objects/metadata":
			w.Write([]byte(`{"size":1048576,"time_created":"2025-04-01T09:00:00Z","custom_metadata":{"title":"Sunrise","thumbnail":"https://cdn.example.com/a.jpg"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func TestClient_ListFolder(t *testing.T) {
	client := newTestStore(t, contentStoreHandler(t))

	refs, err := client.ListFolder(context.Background(), "videos")
	if err != nil {
		t.Fatalf("ListFolder failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 refs, got %d", len(refs))
	}
	if refs[0] != (catalog.Ref{Path: "videos/a.mp4", Name: "a.mp4"}) {
		t.Errorf("Unexpected first ref: %+v", refs[0])
	}
	// Name falls back to the last path element
	if refs[1].Name != "b.mp4" {
		t.Errorf("Expected derived name b.mp4, got %q", refs[1].Name)
	}
}

func TestClient_ResolvePlaybackURL(t *testing.T) {
	client := newTestStore(t, contentStoreHandler(t))

	url, err := client.ResolvePlaybackURL(context.Background(), catalog.Ref{Path: "videos/a.mp4"})
	if err != nil {
		t.Fatalf("ResolvePlaybackURL failed: %v", err)
	}
	if url != "https://cdn.example.com/videos/a.mp4?sig=xyz" {
		t.Errorf("Unexpected url %q", url)
	}

	_, err = client.ResolvePlaybackURL(context.Background(), catalog.Ref{Path: "videos/missing.mp4"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestClient_ResolveMetadata(t *testing.T) {
	client := newTestStore(t, contentStoreHandler(t))

	meta, err := client.ResolveMetadata(context.Background(), catalog.Ref{Path: "videos/a.mp4"})
	if err != nil {
		t.Fatalf("ResolveMetadata failed: %v", err)
	}
	if meta.Title != "Sunrise" {
		t.Errorf("Expected title Sunrise, got %q", meta.Title)
	}
	if meta.ThumbnailURL != "https://cdn.example.com/a.jpg" {
		t.Errorf("Unexpected thumbnail %q", meta.ThumbnailURL)
	}
	if meta.SizeBytes != 1048576 {
		t.Errorf("Expected size 1048576, got %d", meta.SizeBytes)
	}
	if !meta.CreatedAt.Equal(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected created time %v", meta.CreatedAt)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, "", func(err error) bool { return errors.Is(err, ErrPermission) }},
		{"forbidden", http.StatusForbidden, "", func(err error) bool { return errors.Is(err, ErrPermission) }},
		{"not found", http.StatusNotFound, "", func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"server error", http.StatusBadGateway, `{"message":"upstream down"}`, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusBadGateway && se.Message == "upstream down"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListFolder(context.Background(), "videos")
			if err == nil || !tt.check(err) {
				t.Errorf("Unexpected error for %d: %v", tt.status, err)
			}
		})
	}
}

func TestClient_SendsAPIKey(t *testing.T) {
	var got atomic.Value
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("X-API-Key"))
		w.Write([]byte(`{"items":[]}`))
	})

	refs, err := client.ListFolder(context.Background(), "videos")
	if err != nil {
		t.Fatalf("ListFolder failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Expected empty listing, got %d", len(refs))
	}
	if got.Load() != "test-key" {
		t.Errorf("Expected X-API-Key header, got %v", got.Load())
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 5; i++ {
		if _, err := client.ListFolder(context.Background(), "videos"); err == nil {
			t.Fatal("Expected error from failing store")
		}
	}

	if client.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("Expected breaker open, got %s", client.BreakerState())
	}

	_, err := client.ListFolder(context.Background(), "videos")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected open-state rejection, got %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("Expected 5 calls to reach the server, got %d", calls.Load())
	}
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 10; i++ {
		client.ResolvePlaybackURL(context.Background(), catalog.Ref{Path: "videos/x"})
	}
	if client.BreakerState() != gobreaker.StateClosed {
		t.Errorf("Expected breaker closed, got %s", client.BreakerState())
	}
}

func TestClient_ListFolderRejectsEmptyRef(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"ref":"videos/a.mp4"},{"ref":"","name":"ghost.mp4"}]}`))
	})

	refs, err := client.ListFolder(context.Background(), "videos")
	if err == nil {
		t.Fatalf("Expected error for empty ref, got %+v", refs)
	}
	if !strings.Contains(err.Error(), "empty ref") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestClient_CancelledRequestsDoNotTripBreaker(t *testing.T) {
	var failed atomic.Bool
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ref := r.URL.Query().Get("ref")

		switch r.URL.Path {
		case "/api/folders/videos/items":
			var items []string
			for i := 0; i < 10; i++ {
				items = append(items, fmt.Sprintf(`{"ref":"videos/%d.mp4"}`, i))
			}
			w.Write([]byte(`{"items":[` + strings.Join(items, ",") + `]}`))
		case "/api/objects/url":
			// Slow enough that the failing lookup below cancels these
			select {
			case <-time.After(100 * time.Millisecond):
			case <-r.Context().Done():
				return
			}
			w.Write([]byte(`{"url":"https://cdn.example.com/` + ref + `"}`))
		case "/api/objects/metadata":
			if ref == "videos/0.mp4" && failed.CompareAndSwap(false, true) {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"size":1024}`))
		}
	})

	fetcher := catalog.NewClient(client, catalog.Options{Folder: "videos", Logger: zerolog.Nop()})

	if _, err := fetcher.FetchCatalog(context.Background()); err == nil {
		t.Fatal("Expected first fetch to fail")
	}
	if client.BreakerState() != gobreaker.StateClosed {
		t.Fatalf("Expected breaker closed after one failing item, got %s", client.BreakerState())
	}

	items, err := fetcher.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("Expected second fetch to succeed, got %v", err)
	}
	if len(items) != 10 {
		t.Errorf("Expected 10 items, got %d", len(items))
	}
}

func TestClient_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(5*time.Millisecond, cancel)
		if _, err := client.ListFolder(ctx, "videos"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
	}
	if client.BreakerState() != gobreaker.StateClosed {
		t.Errorf("Expected breaker closed, got %s", client.BreakerState())
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("Expected error without base URL")
	}
}
