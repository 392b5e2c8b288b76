package wingo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BetLedger is the append-only record of wagers.
type BetLedger struct {
	t     *table
	sched *RoundScheduler
	clock Clock
	store Store
	log   *logrus.Entry
	newID func() string
}

// PlaceBet appends a bet to the open round. The round check and the append
// run under the table lock against the authoritative clock, so no bet lands
// after its round closed.
func (l *BetLedger) PlaceBet(ctx context.Context, player Principal, roundID int64, bt BetType, amount int64) (Bet, error) {
	if bt == nil {
		return Bet{}, fmt.Errorf("%w: missing bet type", ErrInvalidBetType)
	}
	if err := bt.validate(); err != nil {
		return Bet{}, err
	}
	if amount < 1 {
		return Bet{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	l.t.mu.Lock()
	defer l.t.mu.Unlock()

	now := l.clock.Now()
	current, err := l.sched.currentLocked(ctx, now)
	if err != nil {
		return Bet{}, err
	}
	if current.ID != roundID {
		return Bet{}, fmt.Errorf("%w: round %d is closed, current round is %d", ErrRoundNotOpen, roundID, current.ID)
	}

	bet := Bet{
		ID:       l.newID(),
		Player:   player,
		RoundID:  roundID,
		Type:     bt,
		Amount:   amount,
		PlacedAt: now.UnixNano(),
	}
	if err := l.store.InsertBet(ctx, bet); err != nil {
		return Bet{}, fmt.Errorf("store bet: %w", err)
	}
	l.t.addBet(bet)

	l.log.WithFields(logrus.Fields{
		"bet_id":   bet.ID,
		"player":   player,
		"round_id": roundID,
		"bet":      bt,
		"amount":   amount,
	}).Info("bet placed")
	return bet, nil
}

// BetHistory returns up to limit of the player's own bets, most recent first.
func (l *BetLedger) BetHistory(player Principal, limit int) []Bet {
	l.t.mu.RLock()
	defer l.t.mu.RUnlock()
	return newestFirst(l.t.byPlayer[player], limit)
}

// RoundBets returns every bet of a round in placement order.
func (l *BetLedger) RoundBets(roundID int64) []Bet {
	l.t.mu.RLock()
	defer l.t.mu.RUnlock()
	bets := l.t.byRound[roundID]
	out := make([]Bet, len(bets))
	for i, b := range bets {
		out[i] = *b
	}
	return out
}

func newBetID() string {
	return uuid.NewString()
}
