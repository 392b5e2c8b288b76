package wingo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// QueryFacade serves side-effect-free projections. The only write it can
// trigger is the lazy creation of the current round.
type QueryFacade struct {
	sched    *RoundScheduler
	ledger   *BetLedger
	profiles *ProfileBook
	cache    RoundCache
	clock    Clock
	log      *logrus.Entry
}

// CurrentRound serves the cached round only while it is still open and it
// is the round the scheduler holds. Entries written by another process or a
// previous run are replaced.
func (q *QueryFacade) CurrentRound(ctx context.Context) (Round, error) {
	if q.cache != nil {
		r, ok, err := q.cache.GetCurrentRound(ctx)
		if err != nil {
			q.log.WithError(err).Warn("round cache read failed")
		} else if ok && r.OpenAt(q.clock.Now()) && q.sched.isCurrent(r) {
			return r, nil
		}
	}

	r, err := q.sched.CurrentRound(ctx)
	if err != nil {
		return Round{}, err
	}
	if q.cache != nil {
		ttl := r.EndTime - q.clock.Now().UnixNano()
		if ttl > 0 {
			if err := q.cache.SetCurrentRound(ctx, r, time.Duration(ttl)); err != nil {
				q.log.WithError(err).Warn("round cache write failed")
			}
		}
	}
	return r, nil
}

func (q *QueryFacade) RoundHistory(limit int) []Round {
	return q.sched.RoundHistory(limit)
}

// BetHistory is scoped to the caller's own bets.
func (q *QueryFacade) BetHistory(caller Principal, limit int) ([]Bet, error) {
	if caller == Anonymous {
		return nil, ErrUnauthenticated
	}
	return q.ledger.BetHistory(caller, limit), nil
}

func (q *QueryFacade) Profile(p Principal) (UserProfile, bool) {
	return q.profiles.Get(p)
}

func (q *QueryFacade) forgetCurrentRound(ctx context.Context) {
	if q.cache == nil {
		return
	}
	if err := q.cache.InvalidateCurrentRound(ctx); err != nil {
		q.log.WithError(err).Warn("round cache invalidation failed")
	}
}
