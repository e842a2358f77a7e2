package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Task pause levels.
var taskPauseLevels = []string{"task", "family"}

// Task log levels accepted by the logs endpoint.
var taskLogLevels = []string{"emergency", "alert", "critical", "error", "warning", "notice", "info", "debug"}

// Task implements acsf.TaskEntity for a WIP task.
type Task struct {
	client *Client
	id     int
	parent *Task
}

// NewTask wraps a known task ID. parent may be nil.
func NewTask(client *Client, id int, parent *Task) *Task {
	return &Task{client: client, id: id, parent: parent}
}

// EndpointName implements acsf.Endpoint.
func (t *Task) EndpointName() string {
	return "Task"
}

// ID returns the task ID.
func (t *Task) ID() int {
	return t.id
}

// Parent returns the owning task, or nil.
func (t *Task) Parent() acsf.TaskEntity {
	if t.parent == nil {
		return nil
	}

	return t.parent
}

// Status fetches the task's current status. The whole body is kept, and the
// fields of the "wip_task" envelope are also copied to the top level so both
// "status" and "wip_task.status" resolve. Top-level fields win on conflict.
func (t *Task) Status(ctx context.Context) (acsf.StatusSnapshot, error) {
	resp, err := t.client.httpClient.Get(ctx, http.Path("wip", "task", t.id, "status"), nil)
	if err != nil {
		return nil, err
	}

	snapshot := make(acsf.StatusSnapshot, len(resp.Data))
	for key, value := range resp.Data {
		snapshot[key] = value
	}

	if inner, ok := resp.Data["wip_task"].(map[string]any); ok {
		for key, value := range inner {
			if _, taken := snapshot[key]; !taken {
				snapshot[key] = value
			}
		}
	}

	return snapshot, nil
}

// Pause pauses or resumes the task. Allowed options are "reason" and
// "level" (task or family).
func (t *Task) Pause(ctx context.Context, paused bool, options map[string]any) (map[string]any, error) {
	body := validation.LimitOptions(options, []string{"reason", "level"})

	if level, ok := body["level"]; ok {
		value := cast.ToString(level)
		if err := validation.RequireOption("level", value, taskPauseLevels, true); err != nil {
			return nil, err
		}

		body["level"] = strings.ToLower(value)
	}

	body["paused"] = paused

	resp, err := t.client.httpClient.Post(ctx, http.Path("pause", t.id), body)
	if err != nil {
		return nil, fmt.Errorf("pausing task %d: %w", t.id, err)
	}

	return resp.Data, nil
}

// Resume is Pause(ctx, false, options).
func (t *Task) Resume(ctx context.Context, options map[string]any) (map[string]any, error) {
	return t.Pause(ctx, false, options)
}

// Stop terminates the task and its descendants without waiting.
func (t *Task) Stop(ctx context.Context) (map[string]any, error) {
	resp, err := t.client.httpClient.Put(ctx, http.Path("tasks", t.id, "terminate"), nil)
	if err != nil {
		return nil, fmt.Errorf("terminating task %d: %w", t.id, err)
	}

	return resp.Data, nil
}

// Delete removes the task and its descendants from the work queue.
func (t *Task) Delete(ctx context.Context) (map[string]any, error) {
	resp, err := t.client.httpClient.Delete(ctx, http.Path("tasks", t.id), nil)
	if err != nil {
		return nil, fmt.Errorf("deleting task %d: %w", t.id, err)
	}

	return resp.Data, nil
}

// Logs returns the task's log entries, optionally filtered by "level".
func (t *Task) Logs(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.LimitOptions(options, []string{"level"})

	if level, ok := query["level"]; ok {
		value := cast.ToString(level)
		if err := validation.RequireOption("level", value, taskLogLevels, true); err != nil {
			return nil, err
		}

		query["level"] = strings.ToLower(value)
	}

	resp, err := t.client.httpClient.Get(ctx, http.Path("tasks", t.id, "logs"), query)
	if err != nil {
		return nil, fmt.Errorf("getting logs for task %d: %w", t.id, err)
	}

	return resp.Data, nil
}

// WaitUntilDone implements acsf.TaskHandle.WaitUntilDone.
func (t *Task) WaitUntilDone(ctx context.Context, pollInterval int, onTick acsf.TickFunc, statusKey string) (int, error) {
	return waitUntilDone(ctx, t, t.client.sleeper, pollInterval, onTick, statusKey)
}
