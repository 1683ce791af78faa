package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickpending/reelfeed/internal/api"
	"github.com/nickpending/reelfeed/internal/config"
	"github.com/nickpending/reelfeed/internal/db"
	"github.com/nickpending/reelfeed/internal/feed"
)

func TestNew_LocalBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.DBPath = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Feed.Seed = 42

	// Seed the local index
	store, err := db.Open(cfg.Store.DBPath)
	require.NoError(t, err)
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"} {
		require.NoError(t, store.PutObject(context.Background(), db.Object{
			Folder:    "videos",
			Name:      name,
			Path:      "/media/" + name,
			CreatedAt: time.Now(),
		}))
	}
	require.NoError(t, store.Close())

	svc, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Controller.Init(context.Background()))
	st := svc.Controller.State()
	assert.Equal(t, feed.Ready, st.Status)
	assert.Len(t, st.Items, 4)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, "New Video", st.Items[0].Title)

	svc.Trigger.Sync()
	target, ok := svc.Trigger.Target()
	require.True(t, ok)
	require.True(t, svc.Trigger.Intersect(target))
	assert.True(t, svc.Controller.State().Exhausted)
}

func TestNew_RemoteBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "remote"
	cfg.Store.URL = "http://127.0.0.1:1"

	svc, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	_, ok := svc.Store.(*api.Client)
	assert.True(t, ok, "remote backend uses the HTTP store")
}

func TestNew_RemoteWithoutURL(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "remote"

	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestServicesClose(t *testing.T) {
	cfg := config.Default()
	cfg.Store.DBPath = filepath.Join(t.TempDir(), "catalog.db")

	svc, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.ErrorIs(t, svc.Controller.Init(context.Background()), feed.ErrClosed)
}
