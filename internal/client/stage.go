package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

var stageFlags = []string{"wipe_target_environment", "synchronize_all_users", "detailed_status"}

// StageClient implements acsf.StageClient.
type StageClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *StageClient) EndpointName() string {
	return "Stage"
}

// Environments returns the environments this factory can stage to, sorted.
func (c *StageClient) Environments(ctx context.Context) ([]string, error) {
	resp, err := c.client.httpClient.Do(ctx, &http.Request{
		Method:     nethttp.MethodGet,
		Path:       "stage",
		APIVersion: constants.StageAPIVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("listing stage environments: %w", err)
	}

	var environments []string

	switch envs := resp.Data["environments"].(type) {
	case map[string]any:
		for name := range envs {
			environments = append(environments, name)
		}
	case []any:
		environments = cast.ToStringSlice(envs)
	}

	slices.Sort(environments)

	return environments, nil
}

// Stage copies siteIDs to environment. The environment is checked against
// Environments first; an unknown one fails with acsf.ErrInvalidEnvironment.
// Options: wipe_target_environment, synchronize_all_users, detailed_status.
func (c *StageClient) Stage(
	ctx context.Context,
	environment string,
	siteIDs []any,
	options map[string]any,
) (map[string]any, error) {
	sites := validation.CleanIntArray(siteIDs)
	if len(sites) == 0 {
		return nil, acsf.NewInvalidOption("sites", siteIDs, "must contain at least one site ID")
	}

	body := validation.LimitOptions(options, stageFlags)
	for key, value := range body {
		body[key] = validation.EnsureBool(value)
	}

	environments, err := c.Environments(ctx)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(environments, environment) {
		return nil, fmt.Errorf("%w: %q is not one of %s",
			acsf.ErrInvalidEnvironment, environment, strings.Join(environments, ", "))
	}

	body["to_env"] = environment
	body["sites"] = sites

	resp, err := c.client.httpClient.Do(ctx, &http.Request{
		Method:     nethttp.MethodPost,
		Path:       "stage",
		Body:       body,
		APIVersion: constants.StageAPIVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("staging to %s: %w", environment, err)
	}

	return resp.Data, nil
}
