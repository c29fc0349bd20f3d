package session

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			sess := New(time.Hour)
			sess.Order = []int{2, 0, 1}
			sess.Column = "accuracy"
			sess.State = "desc"
			if err := store.Set(ctx, sess); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err := store.Get(ctx, sess.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil {
				t.Fatal("Get returned nil")
			}
			if !slices.Equal(got.Order, sess.Order) || got.Column != "accuracy" || got.State != "desc" {
				t.Errorf("got %+v", got)
			}

			if err := store.Delete(ctx, sess.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if got, _ := store.Get(ctx, sess.ID); got != nil {
				t.Error("deleted session should be gone")
			}
		})
	}
}

func TestStoreExpired(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sess := New(-time.Minute)
			if err := store.Set(ctx, sess); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got, _ := store.Get(ctx, sess.ID); got != nil {
				t.Error("expired session should not be returned")
			}
			if err := store.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup: %v", err)
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess := New(time.Hour)
	sess.Order = []int{1, 0}
	_ = store.Set(ctx, sess)

	sess.Order[0] = 9
	got, _ := store.Get(ctx, sess.ID)
	if got.Order[0] != 1 {
		t.Error("stored session aliases caller state")
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	if err := store.Set(ctx, &Session{ID: "../escape"}); err == nil {
		t.Error("Set should reject non-uuid ids")
	}
	if got, err := store.Get(ctx, "../escape"); got != nil || err != nil {
		t.Errorf("Get = %v, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Error("file written outside the store")
	}
}

func TestNew(t *testing.T) {
	a, b := New(time.Hour), New(time.Hour)
	if a.ID == b.ID {
		t.Error("session ids should be unique")
	}
	if !Valid(a.ID) {
		t.Errorf("invalid id %q", a.ID)
	}
	if a.IsExpired() {
		t.Error("new session should not be expired")
	}
	a.ExpiresAt = time.Now().Add(-time.Second)
	a.Touch(time.Hour)
	if a.IsExpired() {
		t.Error("Touch should extend the session")
	}
}

func TestMongoConfigDefaults(t *testing.T) {
	cfg := MongoConfig{URI: "mongodb://localhost"}.withDefaults()
	if cfg.Database != "funkyheatmap" || cfg.Collection != "sessions" || cfg.Timeout != 5*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("empty uri should fail")
	}
}
