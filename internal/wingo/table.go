package wingo

import "sync"

// table is the shared round table and bet ledger. Scheduler, ledger and
// settlement all mutate it under mu, so the open-check and the bet append
// happen in one critical section.
type table struct {
	mu       sync.RWMutex
	rounds   []*Round
	byID     map[int64]*Round
	bets     []*Bet
	byRound  map[int64][]*Bet
	byPlayer map[Principal][]*Bet
}

func newTable() *table {
	return &table{
		byID:     make(map[int64]*Round),
		byRound:  make(map[int64][]*Bet),
		byPlayer: make(map[Principal][]*Bet),
	}
}

func (t *table) load(rounds []Round, bets []Bet) {
	for _, r := range rounds {
		t.addRound(r)
	}
	for _, b := range bets {
		t.addBet(b)
	}
}

func (t *table) latest() *Round {
	if len(t.rounds) == 0 {
		return nil
	}
	return t.rounds[len(t.rounds)-1]
}

func (t *table) nextID() int64 {
	if r := t.latest(); r != nil {
		return r.ID + 1
	}
	return 1
}

func (t *table) addRound(r Round) *Round {
	stored := &r
	t.rounds = append(t.rounds, stored)
	t.byID[r.ID] = stored
	return stored
}

func (t *table) addBet(b Bet) *Bet {
	stored := &b
	t.bets = append(t.bets, stored)
	t.byRound[b.RoundID] = append(t.byRound[b.RoundID], stored)
	t.byPlayer[b.Player] = append(t.byPlayer[b.Player], stored)
	return stored
}

// newestFirst copies up to limit entries from the tail of s in reverse order.
func newestFirst[T any](s []*T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if limit > len(s) {
		limit = len(s)
	}
	out := make([]T, 0, limit)
	for i := len(s) - 1; i >= len(s)-limit; i-- {
		out = append(out, *s[i])
	}
	return out
}
