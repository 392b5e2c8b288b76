package wingo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memStore records everything written to it so a new Game can reload it.
type memStore struct {
	mu       sync.Mutex
	snap     Snapshot
	failNext error
}

func newMemStore() *memStore {
	return &memStore{snap: Snapshot{Roles: map[Principal]Role{}, Profiles: map[Principal]UserProfile{}}}
}

func (s *memStore) fail() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *memStore) Load(context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{
		Rounds:   append([]Round(nil), s.snap.Rounds...),
		Bets:     append([]Bet(nil), s.snap.Bets...),
		Roles:    map[Principal]Role{},
		Profiles: map[Principal]UserProfile{},
	}
	for k, v := range s.snap.Roles {
		out.Roles[k] = v
	}
	for k, v := range s.snap.Profiles {
		out.Profiles[k] = v
	}
	return out, nil
}

func (s *memStore) InsertRound(_ context.Context, r Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	s.snap.Rounds = append(s.snap.Rounds, r)
	return nil
}

func (s *memStore) InsertBet(_ context.Context, b Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	s.snap.Bets = append(s.snap.Bets, b)
	return nil
}

func (s *memStore) ResolveRound(_ context.Context, id int64, o Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	for i := range s.snap.Rounds {
		if s.snap.Rounds[i].ID == id {
			if s.snap.Rounds[i].Result != nil {
				return ErrAlreadyResolved
			}
			out := o
			s.snap.Rounds[i].Result = &out
		}
	}
	for i := range s.snap.Bets {
		if s.snap.Bets[i].RoundID == id {
			out := o
			s.snap.Bets[i].RoundResult = &out
		}
	}
	return nil
}

func (s *memStore) SaveRole(_ context.Context, p Principal, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	s.snap.Roles[p] = r
	return nil
}

func (s *memStore) SaveProfile(_ context.Context, p Principal, profile UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	s.snap.Profiles[p] = profile
	return nil
}

const (
	admin Principal = "admin"
	alice Principal = "alice"
	bob   Principal = "bob"
)

func newTestGame(t *testing.T, clock Clock, store Store) *Game {
	t.Helper()
	g, err := NewGame(context.Background(), Options{
		RoundDuration: 30 * time.Second,
		Clock:         clock,
		Store:         store,
		Admins:        []Principal{admin},
	})
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	for _, p := range []Principal{alice, bob} {
		if _, err := g.SaveCallerUserProfile(context.Background(), p, UserProfile{Name: string(p)}); err != nil {
			t.Fatalf("SaveCallerUserProfile(%s) error = %v", p, err)
		}
	}
	return g
}

func mustCurrent(t *testing.T, g *Game) Round {
	t.Helper()
	r, err := g.GetCurrentRound(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentRound() error = %v", err)
	}
	return r
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
