package wingo

import (
	"context"
	"time"
)

// Snapshot is the durable state loaded when a Game starts.
type Snapshot struct {
	Rounds   []Round
	Bets     []Bet
	Roles    map[Principal]Role
	Profiles map[Principal]UserProfile
}

// Store persists core state. Every call happens inside the core's critical
// section, before the in-memory state is changed, so an error leaves the
// core untouched.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	InsertRound(ctx context.Context, r Round) error
	InsertBet(ctx context.Context, b Bet) error
	// ResolveRound sets the round outcome and attaches it to every bet of the
	// round in one atomic step.
	ResolveRound(ctx context.Context, roundID int64, o Outcome) error
	SaveRole(ctx context.Context, p Principal, r Role) error
	SaveProfile(ctx context.Context, p Principal, profile UserProfile) error
}

// NopStore keeps nothing; the Game then lives in memory only.
type NopStore struct{}

func (NopStore) Load(context.Context) (Snapshot, error) { return Snapshot{}, nil }
func (NopStore) InsertRound(context.Context, Round) error { return nil }
func (NopStore) InsertBet(context.Context, Bet) error { return nil }
func (NopStore) ResolveRound(context.Context, int64, Outcome) error { return nil }
func (NopStore) SaveRole(context.Context, Principal, Role) error { return nil }
func (NopStore) SaveProfile(context.Context, Principal, UserProfile) error { return nil }

// RoundCache holds a snapshot of the current round for fast reads.
type RoundCache interface {
	GetCurrentRound(ctx context.Context) (Round, bool, error)
	SetCurrentRound(ctx context.Context, r Round, ttl time.Duration) error
	InvalidateCurrentRound(ctx context.Context) error
}
