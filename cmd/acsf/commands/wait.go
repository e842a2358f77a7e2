package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// waitOptions are the flags shared by every command that can follow a task.
type waitOptions struct {
	wait      bool
	interval  int
	statusKey string
	timeout   time.Duration
}

func addWaitFlags(cmd *cobra.Command, opts *waitOptions, withWait bool) {
	if withWait {
		cmd.Flags().BoolVarP(&opts.wait, "wait", "w", false, "wait for the resulting task to finish")
	}

	cmd.Flags().IntVar(&opts.interval, "interval", constants.DefaultPollInterval, "seconds between status polls")
	cmd.Flags().StringVar(&opts.statusKey, "status-key", acsf.DefaultStatusKey, "status field to watch")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 waits forever)")
}

// waitForTask polls handle until it reaches a terminal status, printing one
// line per poll. A task that ends in an error state returns ErrTaskFailed.
func waitForTask(ctx context.Context, w io.Writer, handle acsf.TaskHandle, opts waitOptions) error {
	if opts.timeout < 0 {
		return ErrWaitTimeoutInvalid
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	statusKey := opts.statusKey
	if statusKey == "" {
		statusKey = acsf.DefaultStatusKey
	}

	var last acsf.StatusCode

	onTick := func(task acsf.TaskHandle, snapshot acsf.StatusSnapshot) {
		code, _ := snapshot.Code(statusKey)
		last = code

		_, _ = fmt.Fprintln(w, tickLine(task, snapshot, code))
	}

	elapsed, err := handle.WaitUntilDone(ctx, opts.interval, onTick, statusKey)
	if err != nil {
		return fmt.Errorf("waiting for %s %d after %ds: %w", handle.EndpointName(), handle.ID(), elapsed, err)
	}

	_, _ = fmt.Fprintf(w, "%s %d finished: %s (waited %ds)\n", handle.EndpointName(), handle.ID(), last, elapsed)

	if last.IsError() {
		return fmt.Errorf("%w: %s %d is %s", constants.ErrTaskFailed, handle.EndpointName(), handle.ID(), last)
	}

	return nil
}

func tickLine(task acsf.TaskHandle, snapshot acsf.StatusSnapshot, code acsf.StatusCode) string {
	line := fmt.Sprintf("[%s] %s %d: %s", time.Now().Format(time.TimeOnly), task.EndpointName(), task.ID(), code)

	if message := snapshot.String("error_message"); message != "" {
		line += " (" + message + ")"
	}

	if percentage := snapshot.String("percentage"); percentage != "" {
		line += " " + percentage + "%"
	}

	return line
}

// followTaskResponse waits on the task named by a task-producing response
// when --wait is set.
func followTaskResponse(ctx context.Context, w io.Writer, client acsf.Client, resp map[string]any, opts waitOptions) error {
	if !opts.wait {
		return nil
	}

	taskID, err := acsf.TaskID(resp)
	if err != nil {
		return err
	}

	return waitForTask(ctx, w, client.Task(taskID), opts)
}
