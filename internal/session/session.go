// Package session holds the records produced by one analysis run and derives
// the recommendation and aggregate statistics from them.
//
// A Session is created empty, filled by concurrent workers (one complete
// record per file), and frozen after the last worker finishes. Ranking and
// statistics are recomputed from the frozen records on every call.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dubscore/internal/quality"
)

var (
	// ErrFrozen is returned when adding to a session that has been frozen.
	ErrFrozen = errors.New("session is frozen")
	// ErrDuplicate is returned when a file identity is recorded twice.
	ErrDuplicate = errors.New("duplicate file in session")
)

// Session maps file identity to its analysis record.
type Session struct {
	ID        string
	OutputDir string
	StartedAt time.Time

	mu         sync.Mutex
	order      []string
	records    map[string]quality.Record
	finishedAt time.Time
	frozen     bool
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// New returns an empty session with a fresh identifier.
func New(outputDir string) *Session {
	return NewWithID("", outputDir)
}

// NewWithID returns an empty session using id, so callers can label logs
// before the run starts. An empty id gets a fresh one.
func NewWithID(id, outputDir string) *Session {
	if strings.TrimSpace(id) == "" {
		id = NewID()
	}
	return &Session{
		ID:        id,
		OutputDir: outputDir,
		StartedAt: time.Now().UTC(),
		records:   make(map[string]quality.Record),
	}
}

// Reserve fixes the position of the named files before their records exist.
// Records added later take their reserved slot regardless of completion
// order, which keeps ranking ties deterministic across runs.
func (s *Session) Reserve(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if s.indexOf(name) >= 0 {
			continue
		}
		s.order = append(s.order, name)
	}
}

// Add inserts a finished record. It is safe for concurrent use.
func (s *Session) Add(rec quality.Record) error {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return errors.New("session add: record has no file name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return fmt.Errorf("session add %q: %w", name, ErrFrozen)
	}
	if _, exists := s.records[name]; exists {
		return fmt.Errorf("session add %q: %w", name, ErrDuplicate)
	}
	if s.indexOf(name) < 0 {
		s.order = append(s.order, name)
	}
	s.records[name] = rec
	return nil
}

// Freeze stops further additions. Calling it twice is harmless.
func (s *Session) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return
	}
	s.frozen = true
	s.finishedAt = time.Now().UTC()
}

// Frozen reports whether Freeze has been called.
func (s *Session) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// FinishedAt returns when the session was frozen.
func (s *Session) FinishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt
}

// Get returns the record for a file name.
func (s *Session) Get(name string) (quality.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	return rec, ok
}

// Records returns every record in insertion order. Reserved slots that never
// received a record are skipped.
func (s *Session) Records() []quality.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]quality.Record, 0, len(s.records))
	for _, name := range s.order {
		if rec, ok := s.records[name]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Successful returns the records that take part in ranking, in insertion
// order.
func (s *Session) Successful() []quality.Record {
	return successful(s.Records())
}

// Recommended returns the best successful record.
func (s *Session) Recommended() (quality.Record, bool) {
	return Recommend(s.Records())
}

// Ranked returns successful records ordered by score, best first.
func (s *Session) Ranked() []quality.Record {
	return Rank(s.Records())
}

func (s *Session) indexOf(name string) int {
	for i, existing := range s.order {
		if existing == name {
			return i
		}
	}
	return -1
}

func successful(records []quality.Record) []quality.Record {
	out := make([]quality.Record, 0, len(records))
	for _, rec := range records {
		if rec.Succeeded() {
			out = append(out, rec)
		}
	}
	return out
}

// Restore rebuilds a frozen session from persisted records, keeping their
// order.
func Restore(id, outputDir string, startedAt, finishedAt time.Time, records []quality.Record) (*Session, error) {
	s := &Session{
		ID:        id,
		OutputDir: outputDir,
		StartedAt: startedAt,
		records:   make(map[string]quality.Record, len(records)),
	}
	for _, rec := range records {
		if err := s.Add(rec); err != nil {
			return nil, err
		}
	}
	s.frozen = true
	s.finishedAt = finishedAt
	return s, nil
}
