package wingo

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// AccessGuard holds the flat admin/user/guest role assignment. Callers
// without an assignment are guests.
type AccessGuard struct {
	mu    sync.RWMutex
	roles map[Principal]Role
	store Store
	log   *logrus.Entry
}

func (g *AccessGuard) RoleOf(p Principal) Role {
	if p == Anonymous {
		return RoleGuest
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if r, ok := g.roles[p]; ok {
		return r
	}
	return RoleGuest
}

func (g *AccessGuard) IsAdmin(p Principal) bool {
	return g.RoleOf(p) == RoleAdmin
}

// CanBet returns nil when the caller may place bets.
func (g *AccessGuard) CanBet(p Principal) error {
	if p == Anonymous {
		return ErrUnauthenticated
	}
	if g.RoleOf(p) == RoleGuest {
		return fmt.Errorf("%w: guests cannot place bets, complete your profile first", ErrUnauthorized)
	}
	return nil
}

// AssignRole sets the role of target. Only admins may call it.
func (g *AccessGuard) AssignRole(ctx context.Context, caller, target Principal, role Role) error {
	if !g.IsAdmin(caller) {
		return ErrUnauthorized
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if target == Anonymous {
		return fmt.Errorf("%w: the anonymous caller cannot hold a role", ErrInvalidRole)
	}
	if err := g.set(ctx, target, role); err != nil {
		return err
	}
	g.log.WithFields(logrus.Fields{"caller": caller, "target": target, "role": role}).Info("role assigned")
	return nil
}

// register promotes a guest to user. Existing roles are left alone; the check
// and the write share one critical section so a concurrent AssignRole wins.
func (g *AccessGuard) register(ctx context.Context, p Principal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.roles[p]; ok && r != RoleGuest {
		return nil
	}
	if err := g.setLocked(ctx, p, RoleUser); err != nil {
		return err
	}
	g.log.WithField("principal", p).Info("user registered")
	return nil
}

func (g *AccessGuard) set(ctx context.Context, p Principal, role Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.setLocked(ctx, p, role)
}

// setLocked must be called with mu held.
func (g *AccessGuard) setLocked(ctx context.Context, p Principal, role Role) error {
	if err := g.store.SaveRole(ctx, p, role); err != nil {
		return fmt.Errorf("store role: %w", err)
	}
	g.roles[p] = role
	return nil
}
