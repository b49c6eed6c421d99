// internal/history/store_test.go
package history

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func insertQueries(s *Store, queries ...string) {
	for _, q := range queries {
		s.InsertFront(Entry{Query: q})
	}
}

func queriesOf(s *Store) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Query)
	}
	return out
}

// TestInsertFrontEvictsOldest inserts one more entry than the capacity and
// verifies the first inserted entry is gone while the rest remain newest first.
func TestInsertFrontEvictsOldest(t *testing.T) {
	s := NewStore(DefaultCapacity)
	for i := 1; i <= DefaultCapacity+1; i++ {
		s.InsertFront(Entry{Query: fmt.Sprintf("q%d", i)})
		if s.Len() > DefaultCapacity {
			t.Fatalf("store exceeded capacity after %d inserts: %d", i, s.Len())
		}
	}

	got := queriesOf(s)
	if len(got) != DefaultCapacity {
		t.Fatalf("expected %d entries, got %d", DefaultCapacity, len(got))
	}
	for i, q := range got {
		want := fmt.Sprintf("q%d", DefaultCapacity+1-i)
		if q != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, q)
		}
	}
	for _, q := range got {
		if q == "q1" {
			t.Fatalf("oldest entry should have been evicted: %v", got)
		}
	}
}

func TestInsertFrontAssignsMonotonicIDs(t *testing.T) {
	s := NewStore(2)
	a := s.InsertFront(Entry{Query: "a"})
	b := s.InsertFront(Entry{Query: "b"})
	c := s.InsertFront(Entry{Query: "c"})
	if a.ID != 1 || b.ID != 2 || c.ID != 3 {
		t.Fatalf("unexpected ids: %d %d %d", a.ID, b.ID, c.ID)
	}

	s.ClearAll()
	d := s.InsertFront(Entry{Query: "d"})
	if d.ID != 4 {
		t.Fatalf("ids must not be reused after clear; got %d", d.ID)
	}
}

func TestInsertFrontResetsCursorAndStampsTime(t *testing.T) {
	s := NewStore(5)
	fixed := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	insertQueries(s, "a", "b", "c")
	if err := s.SetCursor(2); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	e := s.InsertFront(Entry{Query: "d"})
	if s.Cursor() != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", s.Cursor())
	}
	if !e.CreatedAt.Equal(fixed) {
		t.Fatalf("expected CreatedAt stamped, got %v", e.CreatedAt)
	}

	explicit := fixed.Add(-time.Hour)
	e = s.InsertFront(Entry{Query: "e", CreatedAt: explicit})
	if !e.CreatedAt.Equal(explicit) {
		t.Fatalf("explicit CreatedAt overwritten: %v", e.CreatedAt)
	}
}

// TestRemoveAtClampsCursor covers the count=3, cursor=2 removal case.
func TestRemoveAtClampsCursor(t *testing.T) {
	s := NewStore(DefaultCapacity)
	insertQueries(s, "a", "b", "c")
	if err := s.SetCursor(2); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}

	if err := s.RemoveAt(2); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if s.Len() != 2 || s.Cursor() != 1 {
		t.Fatalf("expected len=2 cursor=1, got len=%d cursor=%d", s.Len(), s.Cursor())
	}

	if err := s.RemoveAt(0); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if err := s.RemoveAt(0); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if s.Len() != 0 || s.Cursor() != 0 {
		t.Fatalf("expected empty store with cursor 0, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("expected empty sentinel from Current")
	}
}

func TestRemoveAtKeepsCursorWhenInRange(t *testing.T) {
	s := NewStore(DefaultCapacity)
	insertQueries(s, "a", "b", "c", "d")
	_ = s.SetCursor(1)

	if err := s.RemoveAt(3); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	cur, ok := s.Current()
	if !ok || cur.Query != "c" || s.Cursor() != 1 {
		t.Fatalf("expected cursor to stay on c at 1, got %q at %d", cur.Query, s.Cursor())
	}
}

func TestOutOfRange(t *testing.T) {
	s := NewStore(DefaultCapacity)
	insertQueries(s, "a", "b")

	cases := []struct {
		name string
		fn   func() error
	}{
		{"remove negative", func() error { return s.RemoveAt(-1) }},
		{"remove past end", func() error { return s.RemoveAt(2) }},
		{"select negative", func() error { return s.SetCursor(-1) }},
		{"select past end", func() error { return s.SetCursor(2) }},
		{"read past end", func() error { _, err := s.At(5); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
	if s.Len() != 2 || s.Cursor() != 0 {
		t.Fatalf("failed operations must not mutate the store")
	}
}

func TestClearAll(t *testing.T) {
	s := NewStore(DefaultCapacity)
	insertQueries(s, "a", "b", "c")
	_ = s.SetCursor(2)
	s.ClearAll()
	if s.Len() != 0 || s.Cursor() != 0 {
		t.Fatalf("expected empty store, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
}

func TestNearLimit(t *testing.T) {
	s := NewStore(DefaultCapacity)
	for i := 0; i < DefaultCapacity-2; i++ {
		s.InsertFront(Entry{Query: "q"})
	}
	if s.NearLimit() {
		t.Fatalf("store with %d entries should not be near the limit", s.Len())
	}
	s.InsertFront(Entry{Query: "q"})
	if !s.NearLimit() {
		t.Fatalf("store with %d entries should be near the limit", s.Len())
	}
}

func TestNewStoreDefaultsCapacity(t *testing.T) {
	if got := NewStore(0).Capacity(); got != DefaultCapacity {
		t.Fatalf("expected default capacity, got %d", got)
	}
}

func TestEntriesIsACopy(t *testing.T) {
	s := NewStore(DefaultCapacity)
	insertQueries(s, "a")
	entries := s.Entries()
	entries[0].Query = "mutated"
	if cur, _ := s.Current(); cur.Query != "a" {
		t.Fatalf("Entries must return a copy, store now holds %q", cur.Query)
	}
}
