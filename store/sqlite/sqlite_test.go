package sqlite

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/unkn0wn-root/regioncache/internal/keys"
	st "github.com/unkn0wn-root/regioncache/store"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestGetUpsertRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Get(ctx, "cache:r:k"); err != nil || ok {
		t.Fatalf("initial Get: ok=%v err=%v", ok, err)
	}

	if err := s.Upsert(ctx, "cache:r:k", []byte("v1"), 0); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	b, ok, err := s.Get(ctx, "cache:r:k")
	if err != nil || !ok || string(b) != "v1" {
		t.Fatalf("Get: b=%q ok=%v err=%v", b, ok, err)
	}

	// Upsert replaces.
	if err := s.Upsert(ctx, "cache:r:k", []byte("v2"), 0); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if b, _, _ := s.Get(ctx, "cache:r:k"); string(b) != "v2" {
		t.Fatalf("replace lost: %q", b)
	}

	if err := s.Remove(ctx, "cache:r:k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "cache:r:k"); !errors.Is(err, st.ErrKeyAbsent) {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestInsertConflicts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Insert(ctx, "cache:r:k", []byte("first"), 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, "cache:r:k", []byte("second"), 0); !errors.Is(err, st.ErrKeyExists) {
		t.Fatalf("conflicting Insert: %v", err)
	}
	if b, _, _ := s.Get(ctx, "cache:r:k"); string(b) != "first" {
		t.Fatalf("loser overwrote the winner: %q", b)
	}
}

func TestInsertReclaimsExpiredRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Insert(ctx, "cache:r:k", []byte("old"), 20*time.Millisecond); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	// The expired row does not count as existing.
	if err := s.Insert(ctx, "cache:r:k", []byte("new"), 0); err != nil {
		t.Fatalf("Insert over expired row: %v", err)
	}
	if b, ok, _ := s.Get(ctx, "cache:r:k"); !ok || string(b) != "new" {
		t.Fatalf("Get: b=%q ok=%v", b, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Upsert(ctx, "cache:r:k", []byte("v"), 25*time.Millisecond); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "cache:r:k"); !ok {
		t.Fatalf("entry expired too early")
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "cache:r:k"); ok {
		t.Fatalf("entry survived past its TTL")
	}
}

func TestRegionKeysScoped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := []string{keys.Encode("a", "1"), keys.Encode("a", "2")}
	for _, k := range want {
		if err := s.Upsert(ctx, k, []byte("v"), 0); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	// Sibling region and foreign data must not be enumerated.
	if err := s.Upsert(ctx, keys.Encode("ab", "1"), []byte("v"), 0); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, "user:profile:9", []byte("raw"), 0); err != nil {
		t.Fatalf("Upsert foreign: %v", err)
	}

	got, err := s.RegionKeys(ctx, "a")
	if err != nil {
		t.Fatalf("RegionKeys: %v", err)
	}
	sort.Strings(got)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("RegionKeys = %v, want %v", got, want)
	}

	// Foreign rows carry no region: the unnamed region must not see them.
	if got, err := s.RegionKeys(ctx, ""); err != nil || len(got) != 0 {
		t.Fatalf("unnamed RegionKeys = %v err=%v", got, err)
	}

	// Empty region enumerates to nothing, not an error.
	if got, err := s.RegionKeys(ctx, "missing"); err != nil || len(got) != 0 {
		t.Fatalf("empty RegionKeys = %v err=%v", got, err)
	}
}

func TestEnsureIndexIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.EnsureIndex(ctx); err != nil {
			t.Fatalf("EnsureIndex #%d: %v", i+1, err)
		}
	}
}

func TestFlushDestroysEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.Upsert(ctx, keys.Encode("a", "1"), []byte("v"), 0)
	_ = s.Upsert(ctx, "foreign", []byte("v"), 0)

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, ok, _ := s.Get(ctx, keys.Encode("a", "1")); ok {
		t.Fatalf("cache row survived flush")
	}
	if _, ok, _ := s.Get(ctx, "foreign"); ok {
		t.Fatalf("foreign row survived flush")
	}
}
