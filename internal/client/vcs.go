package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

var vcsTypes = []string{"sites", "factory"}

// VcsClient implements acsf.VcsClient.
type VcsClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *VcsClient) EndpointName() string {
	return "Vcs"
}

// Refs lists deployable branches and tags. Options: type (sites or factory,
// default sites) and stack_id. Results are served from the client cache.
func (c *VcsClient) Refs(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.LimitOptions(options, []string{"type", "stack_id"})

	refType := "sites"
	if raw, ok := query["type"]; ok {
		refType = strings.ToLower(cast.ToString(raw))
	}

	if err := validation.RequireOption("type", refType, vcsTypes, false); err != nil {
		return nil, err
	}

	query["type"] = refType
	key := constants.VcsCacheKeyPrefix + "." + refType

	if raw, ok := query["stack_id"]; ok {
		ids := validation.CleanIntArray([]any{raw})
		if len(ids) == 0 || ids[0] < 1 {
			return nil, acsf.NewInvalidOption("stack_id", raw, "must be a positive integer")
		}

		query["stack_id"] = ids[0]
		key += "." + strconv.Itoa(ids[0])
	}

	return c.client.cached(ctx, key, func() (map[string]any, error) {
		resp, err := c.client.httpClient.Get(ctx, "vcs", query)
		if err != nil {
			return nil, fmt.Errorf("listing %s refs: %w", refType, err)
		}

		return resp.Data, nil
	})
}

// StacksClient implements acsf.StacksClient.
type StacksClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *StacksClient) EndpointName() string {
	return "Stacks"
}

// List returns the factory's stacks, served from the client cache.
func (c *StacksClient) List(ctx context.Context) (map[string]any, error) {
	return c.client.cached(ctx, constants.StacksCacheKey, func() (map[string]any, error) {
		resp, err := c.client.httpClient.Get(ctx, "stacks", nil)
		if err != nil {
			return nil, fmt.Errorf("listing stacks: %w", err)
		}

		return resp.Data, nil
	})
}
