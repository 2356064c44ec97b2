package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisLoginLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLoginLimiter
		if !l.Allow("0912345678") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newRedisLoginLimiter(&mockRedisEvaler{result: 1}, time.Minute, 3)
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newRedisLoginLimiter(mock, 2*time.Minute, 3)
		if !l.Allow(" 0912345678 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "library:login:rl:0912345678" {
			t.Fatalf("unexpected key, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisLoginAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny over max", func(t *testing.T) {
		l := newRedisLoginLimiter(&mockRedisEvaler{result: 4}, time.Minute, 3)
		if l.Allow("0912345678") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newRedisLoginLimiter(&mockRedisEvaler{err: errors.New("down")}, time.Minute, 3)
		if !l.Allow("0912345678") {
			t.Fatalf("expected fail-open on redis error")
		}
	})
}

func TestMemoryLoginLimiterWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(time.Minute, 2).(*memoryLoginLimiter)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two attempts should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third attempt inside the window should be denied")
	}
	if !l.Allow("b") {
		t.Fatalf("keys are independent")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("a") {
		t.Fatalf("attempts should expire with the window")
	}
}

func TestNewRedisLoginLimiter_NilClient(t *testing.T) {
	if NewRedisLoginLimiter(nil, time.Minute, 3) != nil {
		t.Fatalf("expected nil limiter without client")
	}
}
