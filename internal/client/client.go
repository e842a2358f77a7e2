package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Static errors for err113 compliance.
var (
	ErrSitegroupOrBaseURLRequired = errors.New("sitegroup or base URL is required")
)

// Client implements the acsf.Client interface.
type Client struct {
	httpClient *http.Client
	cache      acsf.Cache
	logger     acsf.Logger
	sleeper    Sleeper
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *acsf.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a Site Factory client. It performs no network calls.
func New(config *acsf.Config) (*Client, error) {
	if config == nil {
		return nil, acsf.ErrConfigRequired
	}

	root := config.BaseURL
	if root == "" {
		if config.Sitegroup == "" {
			return nil, ErrSitegroupOrBaseURLRequired
		}

		root = http.FactoryRoot(config.Sitegroup, config.Environment)
	}

	credentials := &http.Credentials{Username: config.Username, APIKey: config.APIKey}
	httpClient := http.NewClient(root, credentials, createHTTPClientOptions(config)...)

	return NewWithHTTPClient(httpClient, config.Cache, config.Logger), nil
}

// NewWithHTTPClient creates a client around an existing transport.
func NewWithHTTPClient(httpClient *http.Client, cache acsf.Cache, logger acsf.Logger) *Client {
	if cache == nil {
		cache = acsf.NewNoOpCache()
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
		sleeper:    RealSleeper,
	}
}

// Ping implements acsf.Client.Ping.
func (c *Client) Ping(ctx context.Context) (map[string]any, error) {
	resp, err := c.httpClient.Get(ctx, "ping", nil)
	if err != nil {
		return nil, fmt.Errorf("pinging factory: %w", err)
	}

	return resp.Data, nil
}

// Sites implements acsf.Client.Sites.
func (c *Client) Sites() acsf.SitesClient {
	return &SitesClient{client: c}
}

// Site implements acsf.Client.Site.
func (c *Client) Site(id int) acsf.SiteEntity {
	return &Site{client: c, id: id}
}

// Tasks implements acsf.Client.Tasks.
func (c *Client) Tasks() acsf.TasksClient {
	return &TasksClient{client: c}
}

// Task implements acsf.Client.Task.
func (c *Client) Task(id int) acsf.TaskEntity {
	return &Task{client: c, id: id}
}

// Stage implements acsf.Client.Stage.
func (c *Client) Stage() acsf.StageClient {
	return &StageClient{client: c}
}

// Updates implements acsf.Client.Updates.
func (c *Client) Updates() acsf.UpdatesClient {
	return &UpdatesClient{client: c}
}

// Update implements acsf.Client.Update.
func (c *Client) Update(id int) acsf.UpdateEntity {
	return &Update{client: c, id: id}
}

// Vcs implements acsf.Client.Vcs.
func (c *Client) Vcs() acsf.VcsClient {
	return &VcsClient{client: c}
}

// Stacks implements acsf.Client.Stacks.
func (c *Client) Stacks() acsf.StacksClient {
	return &StacksClient{client: c}
}

// Action implements acsf.Registry.Action.
func (c *Client) Action(name string) (acsf.Endpoint, error) {
	return defaultRegistry.CreateAction(c, name)
}

// Entity implements acsf.Registry.Entity.
func (c *Client) Entity(name string, id int, parent acsf.Endpoint) (acsf.Endpoint, error) {
	return defaultRegistry.CreateEntity(c, name, id, parent)
}

// cacheKey scopes key to this client's factory so one cache can be shared
// between clients.
func (c *Client) cacheKey(key string) string {
	return c.httpClient.Root() + "|" + key
}

// cached returns the memoized response for key or fetches and stores it.
// Cache failures fall through to the API.
func (c *Client) cached(ctx context.Context, key string, fetch func() (map[string]any, error)) (map[string]any, error) {
	key = c.cacheKey(key)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var data map[string]any

		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()

		if err := decoder.Decode(&data); err == nil {
			return data, nil
		}
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(data)
	if err == nil {
		if err := c.cache.Set(ctx, key, raw); err != nil && c.logger != nil {
			c.logger.Warn("caching response failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return data, nil
}
