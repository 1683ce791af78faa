package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nickpending/reelfeed/internal/catalog"
)

// setupTestDB opens a store in a temp directory
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ListAndResolve(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	created := time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC)

	objects := []Object{
		{Folder: "videos", Name: "b.mp4", Path: "/media/b.mp4", Title: "Bee", Thumbnail: "https://cdn.example.com/b.jpg", SizeBytes: 2048, CreatedAt: created},
		{Folder: "videos", Name: "a.mp4", Path: "/media/a.mp4", SizeBytes: 1024, CreatedAt: created},
		{Folder: "stories", Name: "s.mp4", Path: "/media/s.mp4", CreatedAt: created},
	}
	for _, obj := range objects {
		if err := store.PutObject(ctx, obj); err != nil {
			t.Fatalf("PutObject(%s) failed: %v", obj.Name, err)
		}
	}

	refs, err := store.ListFolder(ctx, "videos")
	if err != nil {
		t.Fatalf("ListFolder failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 refs, got %d", len(refs))
	}
	if refs[0].Path != "videos/a.mp4" || refs[1].Path != "videos/b.mp4" {
		t.Errorf("Expected refs ordered by name, got %+v", refs)
	}

	url, err := store.ResolvePlaybackURL(ctx, refs[1])
	if err != nil {
		t.Fatalf("ResolvePlaybackURL failed: %v", err)
	}
	if url != "file:///media/b.mp4" {
		t.Errorf("Expected file URL, got %q", url)
	}

	meta, err := store.ResolveMetadata(ctx, refs[1])
	if err != nil {
		t.Fatalf("ResolveMetadata failed: %v", err)
	}
	if meta.Title != "Bee" || meta.ThumbnailURL == "" || meta.SizeBytes != 2048 {
		t.Errorf("Unexpected metadata: %+v", meta)
	}
	if !meta.CreatedAt.Equal(created) {
		t.Errorf("Expected created %v, got %v", created, meta.CreatedAt)
	}

	// Nullable columns come back empty
	meta, err = store.ResolveMetadata(ctx, refs[0])
	if err != nil {
		t.Fatalf("ResolveMetadata failed: %v", err)
	}
	if meta.Title != "" || meta.ThumbnailURL != "" {
		t.Errorf("Expected empty title and thumbnail, got %+v", meta)
	}
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	missing := catalog.Ref{Path: "videos/missing.mp4", Name: "missing.mp4"}

	if _, err := store.ResolvePlaybackURL(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := store.ResolveMetadata(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	refs, err := store.ListFolder(ctx, "empty")
	if err != nil {
		t.Fatalf("ListFolder failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Expected no refs, got %d", len(refs))
	}
}

func TestStore_PutObjectReplaces(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	obj := Object{Folder: "videos", Name: "a.mp4", Path: "/old/a.mp4", CreatedAt: time.Now()}
	if err := store.PutObject(ctx, obj); err != nil {
		t.Fatal(err)
	}
	obj.Path = "/new/a.mp4"
	if err := store.PutObject(ctx, obj); err != nil {
		t.Fatal(err)
	}

	n, err := store.CountFolder(ctx, "videos")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected 1 object after replace, got %d", n)
	}

	url, _ := store.ResolvePlaybackURL(ctx, catalog.Ref{Path: "videos/a.mp4"})
	if !strings.HasSuffix(url, "/new/a.mp4") {
		t.Errorf("Expected replaced path, got %q", url)
	}
}

func TestStore_IndexDir(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	files := map[string]string{
		"my_first-clip.mp4":  "aaaa",
		"sub/Second.MKV":     "bbbbbbbb",
		"notes.txt":          "skip me",
		".hidden/secret.mp4": "skip me too",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.IndexDir(ctx, "videos", dir)
	if err != nil {
		t.Fatalf("IndexDir failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 files indexed, got %d", n)
	}

	refs, err := store.ListFolder(ctx, "videos")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 || refs[0].Path != "videos/my_first-clip.mp4" || refs[1].Path != "videos/sub/Second.MKV" {
		t.Fatalf("Unexpected refs: %+v", refs)
	}

	meta, err := store.ResolveMetadata(ctx, refs[0])
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "my first clip" {
		t.Errorf("Expected derived title, got %q", meta.Title)
	}
	if meta.SizeBytes != 4 {
		t.Errorf("Expected size 4, got %d", meta.SizeBytes)
	}
}

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"holiday_2024.mp4", "holiday 2024"},
		{"a--b.mkv", "a b"},
		{"plain.webm", "plain"},
		{"dir/nested.clip.mov", "nested clip"},
	}
	for _, tt := range tests {
		if got := TitleFromName(tt.in); got != tt.want {
			t.Errorf("TitleFromName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
