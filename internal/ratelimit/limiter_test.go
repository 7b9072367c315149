package ratelimit

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	l := NewLimiter(client, logger, time.Minute)
	return l, mr
}

func TestLimiter_AllowsWithinLimit(t *testing.T) {
	l, _ := setupTestLimiter(t)
	ctx := context.Background()

	// Limit of 5 per window — first 5 should all be allowed
	for i := 0; i < 5; i++ {
		if !l.Allow(ctx, "contribute", "1.2.3.4", 5) {
			t.Errorf("request %d should be allowed (limit=5)", i+1)
		}
	}
}

func TestLimiter_BlocksOverLimit(t *testing.T) {
	l, _ := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Allow(ctx, "contribute", "1.2.3.4", 3)
	}

	if l.Allow(ctx, "contribute", "1.2.3.4", 3) {
		t.Error("request should be blocked when over limit")
	}
}

func TestLimiter_ZeroLimit_AllowsAll(t *testing.T) {
	l, _ := setupTestLimiter(t)
	ctx := context.Background()

	// Zero limit means no rate limiting
	for i := 0; i < 100; i++ {
		if !l.Allow(ctx, "login", "1.2.3.4", 0) {
			t.Errorf("request %d should be allowed with limit=0 (unlimited)", i+1)
		}
	}
}

func TestLimiter_IsolationBetweenSubjects(t *testing.T) {
	l, _ := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		l.Allow(ctx, "apply", "1.2.3.4", 2)
	}

	if l.Allow(ctx, "apply", "1.2.3.4", 2) {
		t.Error("1.2.3.4 should be blocked")
	}

	if !l.Allow(ctx, "apply", "5.6.7.8", 2) {
		t.Error("5.6.7.8 should be allowed — limits are per-subject")
	}
}

func TestLimiter_IsolationBetweenScopes(t *testing.T) {
	l, _ := setupTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		l.Allow(ctx, "contribute", "1.2.3.4", 2)
	}

	if l.Allow(ctx, "contribute", "1.2.3.4", 2) {
		t.Error("contribute scope should be exhausted")
	}

	if !l.Allow(ctx, "login", "1.2.3.4", 2) {
		t.Error("login scope has its own window")
	}
}

func TestLimiter_FailsOpenOnRedisError(t *testing.T) {
	l, mr := setupTestLimiter(t)
	ctx := context.Background()

	mr.Close()

	if !l.Allow(ctx, "contribute", "1.2.3.4", 1) {
		t.Error("limiter must fail open when redis is unreachable")
	}
}
