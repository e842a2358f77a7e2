package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Sleeper pauses the wait loop between polls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on the wall clock and returns early with ctx.Err() when
// the context is done.
var RealSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})

// waitUntilDone polls handle until the status at statusKey is terminal.
//
// Polls are strictly sequential and onTick runs on the polling goroutine
// before each sleep, including after the final poll. The returned elapsed
// count is the sum of intervals slept, so the first fetch is free. Transport
// errors are returned as-is. A missing statusKey on the first snapshot is an
// invalid option; on later snapshots it counts as still running.
func waitUntilDone(
	ctx context.Context,
	handle acsf.TaskHandle,
	sleeper Sleeper,
	pollInterval int,
	onTick acsf.TickFunc,
	statusKey string,
) (int, error) {
	interval := max(pollInterval, constants.MinPollInterval)

	if statusKey == "" {
		statusKey = acsf.DefaultStatusKey
	}

	elapsed := 0

	for polls := 0; ; polls++ {
		snapshot, err := handle.Status(ctx)
		if err != nil {
			return elapsed, err
		}

		if onTick != nil {
			onTick(handle, snapshot)
		}

		if polls == 0 && !snapshot.Has(statusKey) {
			return elapsed, acsf.NewInvalidOption("status_key", statusKey, "is not present in the status response")
		}

		if code, ok := snapshot.Code(statusKey); ok && code.IsTerminal() {
			return elapsed, nil
		}

		if err := sleeper.Sleep(ctx, time.Duration(interval)*time.Second); err != nil {
			return elapsed, err
		}

		elapsed += interval
	}
}
