package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/history"
)

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("a submission is already in progress")

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type analyzer interface {
	Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error)
}

// recorder is the subset of history.Store a session writes to.
type recorder interface {
	Record(ctx context.Context, label, raw string) (domain.HistoryEntry, error)
}

// Session allows one submission at a time. Successful answers are recorded
// to history before Submit returns.
type Session struct {
	api     analyzer
	history recorder
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

func NewSession(api analyzer, history recorder, logger *slog.Logger) *Session {
	return &Session{api: api, history: history, logger: logger}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit sends req unless a submission is already running, in which case it
// returns ErrBusy without touching the network.
func (s *Session) Submit(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	resp, err := s.api.Analyze(ctx, req)
	if err != nil {
		s.finish(StateFailed)
		return nil, err
	}

	if s.history != nil {
		label := history.Label(req.Mode, req.Fields)
		if _, err := s.history.Record(ctx, label, resp.Markdown); err != nil {
			s.logger.Warn("failed to record history", "error", err)
		}
	}
	s.finish(StateSucceeded)
	return resp, nil
}

// Reset returns a finished session to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		s.state = StateIdle
	}
}

func (s *Session) finish(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.logger.Debug("submission finished", "state", state.String())
}
