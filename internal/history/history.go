package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/interpret"
)

const (
	HistoryKey    = "glowreader_history"
	FirstVisitKey = "glowreader_first_visit"

	dateLayout = "Jan 2, 2006 3:04 PM"
)

var ErrNotFound = errors.New("history entry not found")

// kvRepository is the subset of store.KVStore the history needs.
type kvRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Renderer is the interpreter entry point replay goes through.
type Renderer interface {
	Render(raw string, view interpret.View) interpret.Result
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Store keeps past responses newest first. The collection is loaded once and
// written back whole on every mutation.
type Store struct {
	kv     kvRepository
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	loaded  bool
	entries []domain.HistoryEntry
}

func NewStore(kv kvRepository, clock Clock, logger *slog.Logger) *Store {
	return &Store{kv: kv, clock: clock, logger: logger}
}

// Record prepends a new entry for raw and persists the collection.
func (s *Store) Record(ctx context.Context, label, raw string) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return domain.HistoryEntry{}, err
	}

	now := s.clock.Now()
	id := now.UnixMilli()
	// IDs must stay unique even when two records land in the same millisecond.
	if len(s.entries) > 0 && id <= s.entries[0].ID {
		id = s.entries[0].ID + 1
	}
	entry := domain.HistoryEntry{
		ID:      id,
		Type:    label,
		Date:    now.Format(dateLayout),
		Content: raw,
	}

	next := append([]domain.HistoryEntry{entry}, s.entries...)
	if err := s.save(ctx, next); err != nil {
		return domain.HistoryEntry{}, err
	}
	s.entries = next
	s.logger.Debug("history entry recorded", "id", entry.ID, "type", entry.Type, "entries", len(next))
	return entry, nil
}

// List returns every entry, newest first.
func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.HistoryEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Clear empties the collection and removes it from storage.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.entries = nil
	s.loaded = true
	return nil
}

// Replay re-parses the stored raw response through r, so the presentation is
// the same as for a fresh submission.
func (s *Store) Replay(ctx context.Context, id int64, r Renderer, view interpret.View) (interpret.Result, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return interpret.Result{}, err
	}
	return r.Render(entry.Content, view), nil
}

func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	s.entries = nil
	if ok && raw != "" {
		var entries []domain.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			// Unreadable history is dropped; the next Record overwrites it.
			s.logger.Warn("discarding unreadable history", "error", err)
		} else {
			s.entries = entries
		}
	}
	s.loaded = true
	return nil
}

func (s *Store) save(ctx context.Context, entries []domain.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Put(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Label names an entry after its mode and the user's main context field.
func Label(mode domain.Mode, fields map[string]string) string {
	var detail string
	switch mode {
	case domain.ModeSkinAnalyzer:
		detail = fields["skinProblem"]
	case domain.ModeMakeupArtist:
		detail = fields["eventType"]
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return mode.Title()
	}
	return fmt.Sprintf("%s (%s)", mode.Title(), detail)
}

// Onboarding tracks the one-time first-visit flag.
type Onboarding struct {
	kv kvRepository
}

func NewOnboarding(kv kvRepository) *Onboarding {
	return &Onboarding{kv: kv}
}

func (o *Onboarding) Seen(ctx context.Context) (bool, error) {
	v, ok, err := o.kv.Get(ctx, FirstVisitKey)
	if err != nil {
		return false, fmt.Errorf("failed to read first-visit flag: %w", err)
	}
	return ok && v == "true", nil
}

func (o *Onboarding) MarkSeen(ctx context.Context) error {
	if err := o.kv.Put(ctx, FirstVisitKey, "true"); err != nil {
		return fmt.Errorf("failed to set first-visit flag: %w", err)
	}
	return nil
}
