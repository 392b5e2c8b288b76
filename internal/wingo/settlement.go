package wingo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// SettlementEngine fixes round outcomes. It performs no randomness: the
// winning number is supplied by an admin caller once betting has closed.
type SettlementEngine struct {
	t     *table
	clock Clock
	guard *AccessGuard
	store Store
	log   *logrus.Entry
}

// ResolveRound sets the outcome of a round exactly once. The round and every
// bet of the round receive the outcome in the same critical section.
func (e *SettlementEngine) ResolveRound(ctx context.Context, caller Principal, roundID int64, winningNumber int, colorResult Color) (Round, error) {
	if !e.guard.IsAdmin(caller) {
		e.log.WithFields(logrus.Fields{"caller": caller, "round_id": roundID}).Debug("resolve rejected: not admin")
		return Round{}, ErrUnauthorized
	}

	e.t.mu.Lock()
	defer e.t.mu.Unlock()

	r, ok := e.t.byID[roundID]
	if !ok {
		return Round{}, fmt.Errorf("%w: %d", ErrRoundNotFound, roundID)
	}
	if r.Result != nil {
		return Round{}, fmt.Errorf("%w: round %d", ErrAlreadyResolved, roundID)
	}
	if r.OpenAt(e.clock.Now()) {
		return Round{}, fmt.Errorf("%w: round %d closes at %s", ErrRoundStillOpen, roundID,
			time.Unix(0, r.EndTime).UTC().Format(time.RFC3339))
	}
	outcome, err := NewOutcome(winningNumber, colorResult)
	if err != nil {
		return Round{}, err
	}

	if err := e.store.ResolveRound(ctx, roundID, outcome); err != nil {
		return Round{}, fmt.Errorf("store outcome of round %d: %w", roundID, err)
	}
	r.Result = &outcome
	bets := e.t.byRound[roundID]
	for _, b := range bets {
		b.RoundResult = r.Result
	}

	report := summarize(*r, bets)
	e.log.WithFields(logrus.Fields{
		"round_id":       roundID,
		"winning_number": outcome.WinningNumber,
		"color":          outcome.ColorResult,
		"bets":           len(bets),
		"total_staked":   report.TotalStaked,
		"total_payout":   report.TotalPayout,
	}).Info("round resolved")
	return *r, nil
}

// RoundReport is the settled view of one round.
type RoundReport struct {
	Round       Round `json:"round"`
	Bets        []Bet `json:"bets"`
	TotalStaked int64 `json:"totalStaked"`
	TotalPayout int64 `json:"totalPayout"`
	Winners     int   `json:"winners"`
}

// Report derives the payouts of a round from the ledger.
func (e *SettlementEngine) Report(roundID int64) (RoundReport, error) {
	e.t.mu.RLock()
	defer e.t.mu.RUnlock()
	r, ok := e.t.byID[roundID]
	if !ok {
		return RoundReport{}, fmt.Errorf("%w: %d", ErrRoundNotFound, roundID)
	}
	return summarize(*r, e.t.byRound[roundID]), nil
}

func summarize(r Round, bets []*Bet) RoundReport {
	report := RoundReport{Round: r, Bets: make([]Bet, 0, len(bets))}
	for _, b := range bets {
		report.Bets = append(report.Bets, *b)
		report.TotalStaked += b.Amount
		if r.Result == nil {
			continue
		}
		if s := Settle(b.Type, b.Amount, *r.Result); s.Won {
			report.Winners++
			report.TotalPayout += s.Payout
		}
	}
	return report
}
