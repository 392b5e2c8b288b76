package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wingo/internal/wingo"
)

const currentRoundKey = "wingo:round:current"

// RoundCache keeps the open round in Redis so the hot read path skips the
// engine lock. Entries expire with the round.
type RoundCache struct {
	client redis.Cmdable
	key    string
}

var _ wingo.RoundCache = (*RoundCache)(nil)

func NewRoundCache(client redis.Cmdable) *RoundCache {
	return &RoundCache{client: client, key: currentRoundKey}
}

func (c *RoundCache) GetCurrentRound(ctx context.Context) (wingo.Round, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return wingo.Round{}, false, nil
	}
	if err != nil {
		return wingo.Round{}, false, err
	}
	var r wingo.Round
	if err := json.Unmarshal(data, &r); err != nil {
		return wingo.Round{}, false, fmt.Errorf("decode cached round: %w", err)
	}
	return r, true, nil
}

func (c *RoundCache) SetCurrentRound(ctx context.Context, r wingo.Round, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, ttl).Err()
}

func (c *RoundCache) InvalidateCurrentRound(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
