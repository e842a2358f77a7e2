// Package acsfclient provides the main entry point for creating Site Factory API clients
package acsfclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/acsf-client/internal/client"
	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// New creates a Site Factory client and, unless config.SkipConnectivityCheck
// is set, pings the factory to verify the credentials.
func New(ctx context.Context, config *acsf.Config) (acsf.Client, error) {
	if config == nil {
		return nil, acsf.ErrConfigRequired
	}

	if config.Username == "" {
		return nil, acsf.ErrUsernameRequired
	}

	if config.APIKey == "" {
		return nil, acsf.ErrAPIKeyRequired
	}

	if config.BaseURL == "" && config.Sitegroup == "" {
		return nil, acsf.ErrSitegroupRequired
	}

	// Normalize a copy; the caller's config is left as given.
	normalized := *config
	config = &normalized

	if config.BaseURL != "" {
		config.BaseURL = normalizeBaseURL(config.BaseURL)
	}

	config.Environment = strings.ToLower(strings.TrimSpace(config.Environment))

	c, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if config.SkipConnectivityCheck {
		return c, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.ShortHTTPTimeout)
	defer cancel()

	_, err = c.Ping(pingCtx)
	if err != nil {
		if acsf.IsForbidden(err) {
			return nil, fmt.Errorf("%w for user %s: %w", acsf.ErrInvalidCredentials, config.Username, err)
		}

		return nil, fmt.Errorf("checking connectivity: %w", err)
	}

	return c, nil
}

// NewWithSitegroup creates a client for the factory of sitegroup in environment.
func NewWithSitegroup(ctx context.Context, sitegroup, environment, username, apiKey string) (acsf.Client, error) {
	return New(ctx, &acsf.Config{
		Sitegroup:   sitegroup,
		Environment: environment,
		Username:    username,
		APIKey:      apiKey,
	})
}

// NewWithBaseURL creates a client against an explicit API root such as
// "https://www.dev-acme.acsitefactory.com/api".
func NewWithBaseURL(ctx context.Context, baseURL, username, apiKey string) (acsf.Client, error) {
	return New(ctx, &acsf.Config{
		BaseURL:  baseURL,
		Username: username,
		APIKey:   apiKey,
	})
}

// normalizeBaseURL adds a scheme and the /api suffix when missing.
func normalizeBaseURL(baseURL string) string {
	root := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(root, "http://") && !strings.HasPrefix(root, "https://") {
		root = "https://" + root
	}

	if !strings.HasSuffix(root, "/api") {
		root += "/api"
	}

	return root
}
