package wingo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RoundScheduler owns round timing. Rounds are created lazily: whenever the
// latest round is no longer open, the next read creates exactly one successor
// starting at now.
type RoundScheduler struct {
	t        *table
	clock    Clock
	duration time.Duration
	store    Store
	log      *logrus.Entry
}

func (s *RoundScheduler) Duration() time.Duration {
	return s.duration
}

// CurrentRound returns the open round, creating it if needed.
func (s *RoundScheduler) CurrentRound(ctx context.Context) (Round, error) {
	s.t.mu.RLock()
	if r := s.t.latest(); r != nil && r.OpenAt(s.clock.Now()) {
		out := *r
		s.t.mu.RUnlock()
		return out, nil
	}
	s.t.mu.RUnlock()

	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	r, err := s.currentLocked(ctx, s.clock.Now())
	if err != nil {
		return Round{}, err
	}
	return *r, nil
}

// currentLocked must be called with t.mu held for writing.
func (s *RoundScheduler) currentLocked(ctx context.Context, now time.Time) (*Round, error) {
	if r := s.t.latest(); r != nil && r.OpenAt(now) {
		return r, nil
	}

	next := Round{
		ID:        s.t.nextID(),
		StartTime: now.UnixNano(),
		EndTime:   now.Add(s.duration).UnixNano(),
	}
	if err := s.store.InsertRound(ctx, next); err != nil {
		return nil, fmt.Errorf("create round %d: %w", next.ID, err)
	}
	r := s.t.addRound(next)

	s.log.WithFields(logrus.Fields{
		"round_id": r.ID,
		"ends_at":  time.Unix(0, r.EndTime).UTC().Format(time.RFC3339Nano),
	}).Info("round opened")
	return r, nil
}

// isCurrent reports whether r is the latest round this scheduler created and
// it is still unresolved.
func (s *RoundScheduler) isCurrent(r Round) bool {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	latest := s.t.latest()
	return latest != nil && latest.Result == nil &&
		latest.ID == r.ID && latest.StartTime == r.StartTime && latest.EndTime == r.EndTime
}

// RoundHistory returns up to limit rounds, most recent first.
func (s *RoundScheduler) RoundHistory(limit int) []Round {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	return newestFirst(s.t.rounds, limit)
}

func (s *RoundScheduler) Round(id int64) (Round, bool) {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	r, ok := s.t.byID[id]
	if !ok {
		return Round{}, false
	}
	return *r, true
}

// ClosedUnresolved lists rounds whose window has elapsed without an outcome,
// oldest first.
func (s *RoundScheduler) ClosedUnresolved() []Round {
	now := s.clock.Now()
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	var out []Round
	for _, r := range s.t.rounds {
		if r.StatusAt(now) == RoundClosed {
			out = append(out, *r)
		}
	}
	return out
}
