package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type retryAction struct {
	Key string
}

func (retryAction) Type() string { return "test/RETRY" }

func (retryAction) Validate() error { return nil }

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, _ retryAction) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient failure")
		}
		return nil
	}, WithTimeout[retryAction](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryAction{Key: "abc"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
