package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if tok, err := s.Get(ctx); err != nil || tok != "" {
		t.Fatalf("new store must be logged out, got %q, %v", tok, err)
	}
	if err := s.Set(ctx, "tok1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "tok1" {
		t.Fatalf("expected tok1, got %q", tok)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "" {
		t.Fatalf("expected empty token after clear, got %q", tok)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _ = s.Set(ctx, "tok") }()
		go func() { defer wg.Done(); _, _ = s.Get(ctx) }()
		go func() { defer wg.Done(); _ = s.Clear(ctx) }()
	}
	wg.Wait()
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	if tok, err := NewFileStore(path, "admin").Get(ctx); err != nil || tok != "" {
		t.Fatalf("missing file must read as logged out, got %q, %v", tok, err)
	}

	if err := NewFileStore(path, "admin").Set(ctx, "tok1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := NewFileStore(path, "other").Set(ctx, "tok2"); err != nil {
		t.Fatalf("Set other: %v", err)
	}

	if tok, _ := NewFileStore(path, "admin").Get(ctx); tok != "tok1" {
		t.Fatalf("expected tok1, got %q", tok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file must be 0600, got %o", perm)
	}

	if err := NewFileStore(path, "admin").Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, _ := NewFileStore(path, "admin").Get(ctx); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
	if tok, _ := NewFileStore(path, "other").Get(ctx); tok != "tok2" {
		t.Fatalf("clear must only touch its own key, got %q", tok)
	}
}

func TestFileStore_ClearRecoversFromCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewFileStore(path, "admin")
	if _, err := s.Get(ctx); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear must succeed on a corrupt file: %v", err)
	}
	if tok, err := s.Get(ctx); err != nil || tok != "" {
		t.Fatalf("expected clean logged-out state, got %q, %v", tok, err)
	}
}
