package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingExplainer struct {
	calls int
	text  string
	err   error
}

func (c *countingExplainer) Explain(_ context.Context, _ Facts) (string, error) {
	c.calls++
	return c.text, c.err
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func TestCachedExplainer_HitAfterMiss(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	next := &countingExplainer{text: "explained"}
	c := NewCachedExplainer(next, rdb, time.Hour, "gpt-3.5-turbo")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Explain(ctx, testFacts())
		if err != nil || got != "explained" {
			t.Fatalf("call %d: got %q err %v", i, got, err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", next.calls)
	}

	key := c.key(BuildPrompt(testFacts()))
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl=%v", ttl)
	}

	deep := testFacts()
	deep.Deep = true
	if _, err := c.Explain(ctx, deep); err != nil {
		t.Fatalf("deep: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("different prompt must miss the cache, calls=%d", next.calls)
	}
}

func TestCachedExplainer_KeyIncludesModel(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	a := NewCachedExplainer(nil, rdb, time.Minute, "model-a")
	b := NewCachedExplainer(nil, rdb, time.Minute, "model-b")
	if a.key("p") == b.key("p") {
		t.Fatalf("keys must differ across models")
	}
}

func TestCachedExplainer_UpstreamErrorNotCached(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	next := &countingExplainer{err: errors.New("upstream down")}
	c := NewCachedExplainer(next, rdb, time.Hour, "m")

	if _, err := c.Explain(context.Background(), testFacts()); err == nil {
		t.Fatalf("expected upstream error")
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("errors must not be cached, keys=%v", keys)
	}
}

func TestCachedExplainer_RedisDownFallsThrough(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()

	next := &countingExplainer{text: "fresh"}
	c := NewCachedExplainer(next, rdb, time.Hour, "m")
	got, err := c.Explain(context.Background(), testFacts())
	if err != nil || got != "fresh" {
		t.Fatalf("got %q err %v", got, err)
	}
}
