package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*Redis, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	c := NewRedis(db, "pd:", BreakerSettings{ConsecutiveFailures: 2, OpenFor: time.Minute}, zap.NewNop())
	return c, mock
}

func TestRedis_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		c, mock := newTestRedis(t)
		mock.ExpectGet("pd:posts:abc").SetVal(`{"linked":true}`)

		val, found, err := c.Get(ctx, "posts:abc")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !found {
			t.Fatal("expected hit")
		}
		if string(val) != `{"linked":true}` {
			t.Errorf("value = %q", val)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("miss", func(t *testing.T) {
		c, mock := newTestRedis(t)
		mock.ExpectGet("pd:posts:none").RedisNil()

		val, found, err := c.Get(ctx, "posts:none")
		if err != nil {
			t.Fatalf("miss should not error: %v", err)
		}
		if found || val != nil {
			t.Errorf("expected miss, got found=%v val=%q", found, val)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("redis error", func(t *testing.T) {
		c, mock := newTestRedis(t)
		mock.ExpectGet("pd:posts:err").SetErr(redis.TxFailedErr)

		if _, _, err := c.Get(ctx, "posts:err"); err == nil {
			t.Fatal("expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestRedis_MissesDoNotTripBreaker(t *testing.T) {
	c, mock := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		mock.ExpectGet("pd:k").RedisNil()
		if _, _, err := c.Get(ctx, "k"); err != nil {
			t.Fatalf("miss %d: %v", i, err)
		}
	}
	if got := c.State(); got != "closed" {
		t.Errorf("breaker state = %q, want closed", got)
	}
}

func TestRedis_BreakerOpensAfterFailures(t *testing.T) {
	c, mock := newTestRedis(t)
	ctx := context.Background()

	mock.ExpectGet("pd:k").SetErr(errors.New("connection refused"))
	mock.ExpectGet("pd:k").SetErr(errors.New("connection refused"))

	for i := 0; i < 2; i++ {
		if _, _, err := c.Get(ctx, "k"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if got := c.State(); got != "open" {
		t.Fatalf("breaker state = %q, want open", got)
	}

	// Open breaker rejects without touching Redis.
	_, _, err := c.Get(ctx, "k")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedis_ContextErrorsDoNotTripBreaker(t *testing.T) {
	c, mock := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mock.ExpectGet("pd:k").SetErr(context.Canceled)
		mock.ExpectGet("pd:k").SetErr(context.DeadlineExceeded)
	}
	for i := 0; i < 6; i++ {
		if _, _, err := c.Get(ctx, "k"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if got := c.State(); got != "closed" {
		t.Errorf("breaker state = %q, want closed", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedis_Set(t *testing.T) {
	c, mock := newTestRedis(t)
	ctx := context.Background()

	mock.ExpectSet("pd:posts:abc", `{"linked":false}`, 30*time.Second).SetVal("OK")
	if err := c.Set(ctx, "posts:abc", []byte(`{"linked":false}`), 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedis_Delete(t *testing.T) {
	c, mock := newTestRedis(t)
	ctx := context.Background()

	mock.ExpectDel("pd:a", "pd:b").SetVal(2)
	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// No keys is a no-op.
	if err := c.Delete(ctx); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found, err := c.Get(ctx, "k"); err != nil || found {
		t.Errorf("Noop Get: found=%v err=%v", found, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}
