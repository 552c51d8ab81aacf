package operations

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry records one executor dispatch: the operation's identity plus the
// params and output that crossed the invocation boundary.
type Entry struct {
	ID        string      `json:"id"`
	Def       Definition  `json:"definition"`
	Params    any         `json:"params"`
	Output    any         `json:"output"`
	Timestamp *time.Time  `json:"timestamp"`
	Err       *EntryError `json:"error"`
}

// NewEntry creates a new entry for one dispatch outcome.
func NewEntry(def Definition, params, output any, err error) Entry {
	now := time.Now()
	e := Entry{
		ID:        uuid.New().String(),
		Def:       def,
		Params:    params,
		Output:    output,
		Timestamp: &now,
	}
	if err != nil {
		e.Err = &EntryError{Message: err.Error()}
	}

	return e
}

// EntryError captures the text of a failed dispatch. Entries keep the message
// rather than the live error value, so a journal never retains whatever the
// error was carrying.
type EntryError struct {
	Message string `json:"message"`
}

// Error implements the error interface.
func (e EntryError) Error() string {
	return e.Message
}

var ErrEntryNotFound = errors.New("journal entry not found")

// Journal records dispatch entries. Implementations may keep them in memory,
// forward them elsewhere or discard them; appending must never affect the
// dispatch result it records.
type Journal interface {
	Append(entry Entry) error
	Entries() ([]Entry, error)
	Get(id string) (Entry, error)
}

// MemoryJournal stores entries in memory.
// It is safe for concurrent use.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
}

// MemoryJournal implements the Journal interface.
var _ Journal = &MemoryJournal{}

// MemoryJournalOption is a functional option for configuring a MemoryJournal.
type MemoryJournalOption func(*MemoryJournal)

// WithEntries initializes the MemoryJournal with a list of entries.
func WithEntries(entries []Entry) MemoryJournalOption {
	return func(j *MemoryJournal) {
		j.entries = entries
	}
}

// NewMemoryJournal creates a new MemoryJournal.
func NewMemoryJournal(opts ...MemoryJournalOption) *MemoryJournal {
	j := &MemoryJournal{}
	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Append adds an entry to the journal.
func (j *MemoryJournal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)

	return nil
}

// Entries returns all entries in append order.
func (j *MemoryJournal) Entries() ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	// Copy to avoid data races after returning.
	entries := make([]Entry, len(j.entries))
	copy(entries, j.entries)

	return entries, nil
}

// Get returns an entry by ID.
// Returns ErrEntryNotFound if no such entry exists.
func (j *MemoryJournal) Get(id string) (Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	idx := j.indexOf(id)
	if idx == -1 {
		return Entry{}, fmt.Errorf("entry_id %s: %w", id, ErrEntryNotFound)
	}

	return j.entries[idx], nil
}

// indexOf returns the index of the entry with the provided ID, or -1 if no
// such entry exists.
func (j *MemoryJournal) indexOf(id string) int {
	for i, entry := range j.entries {
		if entry.ID == id {
			return i
		}
	}

	return -1
}

// RecentJournal is a wrapper around a Journal that additionally keeps the
// entries appended since its construction. Useful for observing what one
// phase of work dispatched without scanning the full journal.
// It is safe for concurrent use.
type RecentJournal struct {
	Journal

	mu     sync.RWMutex
	recent []Entry
}

// NewRecentJournal creates a new RecentJournal over journal.
func NewRecentJournal(journal Journal) *RecentJournal {
	return &RecentJournal{
		Journal: journal,
		recent:  []Entry{},
	}
}

// Append adds an entry to the underlying journal and tracks it as recent.
func (j *RecentJournal) Append(entry Entry) error {
	if err := j.Journal.Append(entry); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.recent = append(j.recent, entry)

	return nil
}

// RecentEntries returns the entries appended since the RecentJournal was
// constructed.
func (j *RecentJournal) RecentEntries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entries := make([]Entry, len(j.recent))
	copy(entries, j.recent)

	return entries
}
