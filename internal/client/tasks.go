package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/validation"
)

var taskListStatuses = []string{"processing", "error", "not-started"}

// TasksClient implements acsf.TasksClient.
type TasksClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *TasksClient) EndpointName() string {
	return "Tasks"
}

// List returns WIP tasks. Options: limit, page, status (processing, error,
// not-started), group and class.
func (c *TasksClient) List(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.LimitOptions(options, []string{"limit", "page", "status", "group", "class"})
	query = validation.ConstrictPaging(query, 0)

	if raw, ok := query["status"]; ok {
		status := strings.ToLower(cast.ToString(raw))
		if err := validation.RequireOption("status", status, taskListStatuses, false); err != nil {
			return nil, err
		}

		query["status"] = status
	}

	resp, err := c.client.httpClient.Get(ctx, "tasks", query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return resp.Data, nil
}
