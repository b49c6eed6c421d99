// internal/history/store.go

// Package history holds the bounded, most-recent-first record of query results
// for a single session.
package history

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCapacity is the number of results a Store keeps before evicting.
const DefaultCapacity = 10

// ErrOutOfRange is returned when an index does not address a stored entry.
var ErrOutOfRange = errors.New("history: index out of range")

// Payload is the translated result of a prompt.
type Payload struct {
	Rows        []Record `json:"table"`
	ChartSeries []Record `json:"chart"`
}

// Entry is one recorded prompt and its result.
type Entry struct {
	ID                 int
	Query              string
	Payload            Payload
	GeneratedStatement string
	CreatedAt          time.Time
}

// Store keeps entries ordered most-recent-first and never holds more than its
// capacity. It is not safe for concurrent use.
type Store struct {
	entries  []Entry
	cursor   int
	capacity int
	nextID   int
	now      func() time.Time
}

// NewStore returns an empty Store. A non-positive capacity selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make([]Entry, 0, capacity+1),
		capacity: capacity,
		nextID:   1,
		now:      time.Now,
	}
}

// Capacity returns the maximum number of entries held.
func (s *Store) Capacity() int { return s.capacity }

// Len returns the number of entries held.
func (s *Store) Len() int { return len(s.entries) }

// Cursor returns the index of the displayed entry. It is meaningless when the
// store is empty.
func (s *Store) Cursor() int { return s.cursor }

// NearLimit reports whether the next insertion will fill or overflow the store.
func (s *Store) NearLimit() bool {
	return len(s.entries) >= s.capacity-1
}

// InsertFront assigns the entry a fresh ID, prepends it and points the cursor
// at it. The oldest entry is dropped when capacity is exceeded.
func (s *Store) InsertFront(entry Entry) Entry {
	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry
	if len(s.entries) > s.capacity {
		s.entries[len(s.entries)-1] = Entry{}
		s.entries = s.entries[:s.capacity]
	}
	s.cursor = 0
	return entry
}

// RemoveAt deletes the entry at index and clamps the cursor into range.
func (s *Store) RemoveAt(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("remove %d of %d: %w", index, len(s.entries), ErrOutOfRange)
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	if s.cursor >= len(s.entries) {
		s.cursor = max(0, len(s.entries)-1)
	}
	return nil
}

// ClearAll empties the store. IDs keep increasing afterwards.
func (s *Store) ClearAll() {
	clear(s.entries)
	s.entries = s.entries[:0]
	s.cursor = 0
}

// SetCursor selects the entry at index.
func (s *Store) SetCursor(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("select %d of %d: %w", index, len(s.entries), ErrOutOfRange)
	}
	s.cursor = index
	return nil
}

// Current returns the entry under the cursor. The boolean is false when the
// store is empty.
func (s *Store) Current() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[s.cursor], true
}

// At returns the entry at index.
func (s *Store) At(index int) (Entry, error) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, fmt.Errorf("read %d of %d: %w", index, len(s.entries), ErrOutOfRange)
	}
	return s.entries[index], nil
}

// Entries returns a copy of the stored entries, most recent first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
