package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type pingAction struct{}

func (pingAction) Type() string { return "test/PING" }

func (pingAction) Validate() error { return nil }

type brokenAction struct{}

func (brokenAction) Type() string { return "test/BROKEN" }

func (brokenAction) Validate() error { return errors.New("invalid") }

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingAction) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), pingAction{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestHandlerValidationShortCircuits(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg brokenAction) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), brokenAction{})
	if !IsValidation(err) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(ctx context.Context, msg pingAction) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, pingAction{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingAction) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), pingAction{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerHonoursTimeout(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingAction) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[pingAction](10*time.Millisecond))

	if err := h.Execute(context.Background(), pingAction{}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHandlerReportsTelemetry(t *testing.T) {
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(5 * time.Millisecond)
		return tick
	}

	var infos []TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg pingAction) error {
		return nil
	},
		WithOperation[pingAction]("ping"),
		WithClock[pingAction](clock),
		WithTelemetry(func(_ context.Context, _ pingAction, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), pingAction{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry entry, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusSuccess || info.Action != "test/PING" || info.Operation != "ping" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Duration != 5*time.Millisecond {
		t.Fatalf("expected 5ms duration, got %s", info.Duration)
	}
}
