package wingo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	minNameLength = 2
	maxNameLength = 30
)

// ProfileBook stores name-only user profiles.
type ProfileBook struct {
	mu       sync.RWMutex
	profiles map[Principal]UserProfile
	store    Store
}

func (b *ProfileBook) Get(p Principal) (UserProfile, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	profile, ok := b.profiles[p]
	return profile, ok
}

// normalizeProfile trims the name and enforces its length in runes.
func normalizeProfile(profile UserProfile) (UserProfile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if n := utf8.RuneCountInString(profile.Name); n < minNameLength || n > maxNameLength {
		return UserProfile{}, fmt.Errorf("%w: got %d", ErrInvalidProfileName, n)
	}
	return profile, nil
}

func (b *ProfileBook) Save(ctx context.Context, p Principal, profile UserProfile) (UserProfile, error) {
	profile, err := normalizeProfile(profile)
	if err != nil {
		return UserProfile{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.SaveProfile(ctx, p, profile); err != nil {
		return UserProfile{}, fmt.Errorf("store profile: %w", err)
	}
	b.profiles[p] = profile
	return profile, nil
}
