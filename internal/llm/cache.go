package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/stockpulse/internal/logger"
)

const cacheKeyPrefix = "explanation:"

// CachedExplainer serves repeated explanations for identical prompts from Redis.
// Redis errors never fail a request: the call falls through to the wrapped explainer.
type CachedExplainer struct {
	next  Explainer
	rdb   *redis.Client
	ttl   time.Duration
	model string
}

// NewCachedExplainer wraps next. model is part of the cache key so switching
// models does not serve stale answers.
func NewCachedExplainer(next Explainer, rdb *redis.Client, ttl time.Duration, model string) *CachedExplainer {
	return &CachedExplainer{next: next, rdb: rdb, ttl: ttl, model: model}
}

func (c *CachedExplainer) Explain(ctx context.Context, f Facts) (string, error) {
	key := c.key(BuildPrompt(f))

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		logger.L().Debug().Str("key", key).Msg("explanation cache hit")
		return cached, nil
	case !errors.Is(err, redis.Nil):
		logger.L().Warn().Err(err).Msg("explanation cache read failed")
	}

	text, err := c.next.Explain(ctx, f)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		logger.L().Warn().Err(err).Msg("explanation cache write failed")
	}
	return text, nil
}

func (c *CachedExplainer) key(prompt string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
