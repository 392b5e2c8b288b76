package wingo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultRoundDuration = 30 * time.Second

type Options struct {
	RoundDuration time.Duration
	Clock         Clock
	Store         Store
	Cache         RoundCache
	// Admins are granted the admin role at start.
	Admins []Principal
}

// Game wires the round engine together and exposes the backend operations.
type Game struct {
	Scheduler  *RoundScheduler
	Ledger     *BetLedger
	Settlement *SettlementEngine
	Access     *AccessGuard
	Profiles   *ProfileBook
	Query      *QueryFacade
}

// NewGame loads the persisted state from the store and bootstraps the admins.
func NewGame(ctx context.Context, opts Options) (*Game, error) {
	if opts.RoundDuration <= 0 {
		opts.RoundDuration = DefaultRoundDuration
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Store == nil {
		opts.Store = NopStore{}
	}

	snap, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	log := logrus.WithField("component", "wingo")
	t := newTable()
	t.load(snap.Rounds, snap.Bets)

	guard := &AccessGuard{roles: make(map[Principal]Role), store: opts.Store, log: log.WithField("part", "access")}
	for p, r := range snap.Roles {
		guard.roles[p] = r
	}
	profiles := &ProfileBook{profiles: make(map[Principal]UserProfile), store: opts.Store}
	for p, profile := range snap.Profiles {
		profiles.profiles[p] = profile
	}

	sched := &RoundScheduler{
		t:        t,
		clock:    opts.Clock,
		duration: opts.RoundDuration,
		store:    opts.Store,
		log:      log.WithField("part", "scheduler"),
	}
	ledger := &BetLedger{
		t:     t,
		sched: sched,
		clock: opts.Clock,
		store: opts.Store,
		log:   log.WithField("part", "ledger"),
		newID: newBetID,
	}
	g := &Game{
		Scheduler: sched,
		Ledger:    ledger,
		Settlement: &SettlementEngine{
			t:     t,
			clock: opts.Clock,
			guard: guard,
			store: opts.Store,
			log:   log.WithField("part", "settlement"),
		},
		Access:   guard,
		Profiles: profiles,
		Query: &QueryFacade{
			sched:    sched,
			ledger:   ledger,
			profiles: profiles,
			cache:    opts.Cache,
			clock:    opts.Clock,
			log:      log.WithField("part", "query"),
		},
	}

	for _, p := range opts.Admins {
		if p == Anonymous || guard.IsAdmin(p) {
			continue
		}
		if err := guard.set(ctx, p, RoleAdmin); err != nil {
			return nil, fmt.Errorf("bootstrap admin %s: %w", p, err)
		}
		log.WithField("principal", p).Info("admin bootstrapped")
	}

	log.WithFields(logrus.Fields{
		"rounds":         len(snap.Rounds),
		"bets":           len(snap.Bets),
		"round_duration": opts.RoundDuration,
	}).Info("game loaded")
	return g, nil
}

func (g *Game) GetCurrentRound(ctx context.Context) (Round, error) {
	return g.Query.CurrentRound(ctx)
}

func (g *Game) GetRoundHistory(limit int) []Round {
	return g.Query.RoundHistory(limit)
}

func (g *Game) GetBetHistory(caller Principal, limit int) ([]Bet, error) {
	return g.Query.BetHistory(caller, limit)
}

func (g *Game) PlaceBet(ctx context.Context, caller Principal, roundID int64, bt BetType, amount int64) (Bet, error) {
	if err := g.Access.CanBet(caller); err != nil {
		return Bet{}, err
	}
	return g.Ledger.PlaceBet(ctx, caller, roundID, bt, amount)
}

func (g *Game) ResolveRound(ctx context.Context, caller Principal, roundID int64, winningNumber int, colorResult Color) (Round, error) {
	r, err := g.Settlement.ResolveRound(ctx, caller, roundID, winningNumber, colorResult)
	if err != nil {
		return Round{}, err
	}
	g.Query.forgetCurrentRound(ctx)
	return r, nil
}

// RoundReport is admin-only because it exposes every player's bets.
func (g *Game) RoundReport(caller Principal, roundID int64) (RoundReport, error) {
	if !g.Access.IsAdmin(caller) {
		return RoundReport{}, ErrUnauthorized
	}
	return g.Settlement.Report(roundID)
}

// PendingRounds lists closed rounds still waiting for an outcome.
func (g *Game) PendingRounds() []Round {
	return g.Scheduler.ClosedUnresolved()
}

func (g *Game) AssignCallerUserRole(ctx context.Context, caller, target Principal, role Role) error {
	return g.Access.AssignRole(ctx, caller, target, role)
}

func (g *Game) GetCallerUserRole(caller Principal) Role {
	return g.Access.RoleOf(caller)
}

func (g *Game) IsCallerAdmin(caller Principal) bool {
	return g.Access.IsAdmin(caller)
}

func (g *Game) GetCallerUserProfile(caller Principal) (UserProfile, bool, error) {
	if caller == Anonymous {
		return UserProfile{}, false, ErrUnauthenticated
	}
	profile, ok := g.Query.Profile(caller)
	return profile, ok, nil
}

// GetUserProfile is allowed for the identity itself and for admins.
func (g *Game) GetUserProfile(caller, target Principal) (UserProfile, bool, error) {
	if caller == Anonymous {
		return UserProfile{}, false, ErrUnauthenticated
	}
	if caller != target && !g.Access.IsAdmin(caller) {
		return UserProfile{}, false, ErrUnauthorized
	}
	profile, ok := g.Query.Profile(target)
	return profile, ok, nil
}

// SaveCallerUserProfile registers a guest as user, then stores the profile.
// An invalid name changes nothing; a failed registration stores no profile.
func (g *Game) SaveCallerUserProfile(ctx context.Context, caller Principal, profile UserProfile) (UserProfile, error) {
	if caller == Anonymous {
		return UserProfile{}, ErrUnauthenticated
	}
	if _, err := normalizeProfile(profile); err != nil {
		return UserProfile{}, err
	}
	if err := g.Access.register(ctx, caller); err != nil {
		return UserProfile{}, err
	}
	return g.Profiles.Save(ctx, caller, profile)
}
