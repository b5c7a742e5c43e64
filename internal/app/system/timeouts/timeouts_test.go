package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	cur := timeouts.Current()
	if cur.Short != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", cur.Short)
	}
	if cur.Ping != timeouts.DefaultPing {
		t.Errorf("Ping changed: got %v", cur.Ping)
	}
	if cur.Medium != timeouts.DefaultMedium {
		t.Errorf("Medium changed: got %v", cur.Medium)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute, Medium: time.Minute})
	timeouts.Reset()

	if timeouts.Ping() != timeouts.DefaultPing || timeouts.Medium() != timeouts.DefaultMedium {
		t.Errorf("Reset did not restore defaults: %+v", timeouts.Current())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.New(core), "slow op")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
	if op := logs.All()[0].ContextMap()["operation"]; op != "slow op" {
		t.Errorf("operation field: got %v", op)
	}
}

func TestWithTimeout_NoLogWhenCanceledEarly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := timeouts.WithTimeout(context.Background(), time.Hour, zap.New(core), "fast op")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}
