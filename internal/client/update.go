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

var (
	updateScopes    = []string{"sites", "factory", "both"}
	updateSiteTypes = []string{"code", "db", "registry"}
)

const updateStartTimePattern = `^(now|\d+)$`

// Update implements acsf.UpdateEntity for a code update process.
type Update struct {
	client *Client
	id     int
}

// EndpointName implements acsf.Endpoint.
func (u *Update) EndpointName() string {
	return "Update"
}

// ID returns the update ID.
func (u *Update) ID() int {
	return u.id
}

// Status fetches the update's progress.
func (u *Update) Status(ctx context.Context) (acsf.StatusSnapshot, error) {
	resp, err := u.client.httpClient.Get(ctx, http.Path("update", u.id, "status"), nil)
	if err != nil {
		return nil, err
	}

	return acsf.StatusSnapshot(resp.Data), nil
}

// Pause pauses or resumes the update.
func (u *Update) Pause(ctx context.Context, paused bool) (map[string]any, error) {
	resp, err := u.client.httpClient.Post(ctx, http.Path("update", u.id, "pause"), map[string]any{"pause": paused})
	if err != nil {
		return nil, fmt.Errorf("pausing update %d: %w", u.id, err)
	}

	return resp.Data, nil
}

// WaitUntilDone implements acsf.TaskHandle.WaitUntilDone.
func (u *Update) WaitUntilDone(ctx context.Context, pollInterval int, onTick acsf.TickFunc, statusKey string) (int, error) {
	return waitUntilDone(ctx, u, u.client.sleeper, pollInterval, onTick, statusKey)
}

// UpdatesClient implements acsf.UpdatesClient.
type UpdatesClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *UpdatesClient) EndpointName() string {
	return "Updates"
}

// Start begins a code update. The response carries the update's "task_id".
func (c *UpdatesClient) Start(ctx context.Context, options map[string]any) (map[string]any, error) {
	body, err := validateUpdateOptions(options)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.httpClient.Post(ctx, "update", body)
	if err != nil {
		return nil, fmt.Errorf("starting update: %w", err)
	}

	return resp.Data, nil
}

// List returns recent updates.
func (c *UpdatesClient) List(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.ConstrictPaging(validation.LimitOptions(options, []string{"limit", "page"}), 0)

	resp, err := c.client.httpClient.Get(ctx, "update", query)
	if err != nil {
		return nil, fmt.Errorf("listing updates: %w", err)
	}

	return resp.Data, nil
}

func validateUpdateOptions(options map[string]any) (map[string]any, error) {
	body := validation.LimitOptions(options, []string{
		"scope", "start_time", "sites_ref", "factory_ref", "sites_type", "stack_id", "db_update_arguments",
	})

	scope := "sites"
	if raw, ok := body["scope"]; ok {
		scope = strings.ToLower(cast.ToString(raw))
	}

	if err := validation.RequireOption("scope", scope, updateScopes, false); err != nil {
		return nil, err
	}

	body["scope"] = scope

	if (scope == "sites" || scope == "both") && cast.ToString(body["sites_ref"]) == "" {
		return nil, acsf.NewInvalidOption("sites_ref", body["sites_ref"], "is required for scope "+scope)
	}

	if (scope == "factory" || scope == "both") && cast.ToString(body["factory_ref"]) == "" {
		return nil, acsf.NewInvalidOption("factory_ref", body["factory_ref"], "is required for scope "+scope)
	}

	if raw, ok := body["start_time"]; ok {
		startTime := cast.ToString(raw)
		if err := validation.RequirePatternMatch(startTime, updateStartTimePattern); err != nil {
			return nil, acsf.NewInvalidOption("start_time", raw, "must be \"now\" or a unix timestamp")
		}

		body["start_time"] = startTime
	}

	if raw, ok := body["sites_type"]; ok {
		types, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, acsf.NewInvalidOption("sites_type", raw, "must be a list")
		}

		filtered := validation.FilterArrayToValues(types, updateSiteTypes, true)
		if len(filtered) == 0 {
			return nil, acsf.NewInvalidOption("sites_type", raw, "must contain one of "+strings.Join(updateSiteTypes, ", "))
		}

		body["sites_type"] = strings.Join(filtered, ",")
	}

	if raw, ok := body["stack_id"]; ok {
		ids := validation.CleanIntArray([]any{raw})
		if len(ids) == 0 || ids[0] < 1 {
			return nil, acsf.NewInvalidOption("stack_id", raw, "must be a positive integer")
		}

		body["stack_id"] = ids[0]
	}

	return body, nil
}
