// Package http is the Site Factory transport: basic-auth JSON requests
// against a versioned API root, with optional retries on transient failures.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Credentials are sent as HTTP basic auth.
type Credentials struct {
	Username string
	APIKey   string
}

// Client performs requests against "<root>/v<N>/<path>".
type Client struct {
	root         string
	credentials  *Credentials
	httpClient   *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPTimeout bounds a single HTTP exchange.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig retries 5xx, 429 and connection errors up to retryMax times.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// NewClient creates a transport rooted at the API's "/api" URL.
func NewClient(root string, credentials *Credentials, opts ...Option) *Client {
	client := &Client{
		root:         strings.TrimSuffix(root, "/"),
		credentials:  credentials,
		userAgent:    "acsf-client-go/1.0",
		timeout:      constants.DefaultHTTPTimeout,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.HTTPClient.Timeout = client.timeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.httpClient = retryClient

	return client
}

// FactoryRoot builds the "/api" root for a sitegroup and environment.
func FactoryRoot(sitegroup, environment string) string {
	host := sitegroup
	if environment != "" && environment != constants.ProductionEnvironment {
		host = environment + "-" + sitegroup
	}

	return "https://www." + host + "." + constants.FactoryDomain + "/api"
}

// Request represents an API request.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Body       interface{}
	Headers    map[string]string
	APIVersion int
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Data is the decoded JSON body. Non-object bodies are stored under "data".
	Data map[string]any
}

// Path joins logical path segments with "/".
func Path(segments ...any) string {
	parts := make([]string, 0, len(segments))

	for _, segment := range segments {
		part := strings.Trim(cast.ToString(segment), "/")
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, "/")
}

// EncodeQuery flattens an option map into query values. Slices are joined
// with commas and booleans are sent as "true"/"false".
func EncodeQuery(options map[string]any) url.Values {
	values := url.Values{}

	for key, value := range options {
		switch v := value.(type) {
		case nil:
			continue
		case []int:
			parts := make([]string, len(v))
			for i, n := range v {
				parts[i] = strconv.Itoa(n)
			}

			values.Set(key, strings.Join(parts, ","))
		case []string:
			values.Set(key, strings.Join(v, ","))
		case []any:
			values.Set(key, strings.Join(cast.ToStringSlice(v), ","))
		default:
			values.Set(key, cast.ToString(v))
		}
	}

	return values
}

// Root returns the "/api" root every request is resolved against.
func (c *Client) Root() string {
	return c.root
}

// URL returns the absolute URL for a request.
func (c *Client) URL(req *Request) string {
	version := req.APIVersion
	if version <= 0 {
		version = constants.DefaultAPIVersion
	}

	u := c.root + "/v" + strconv.Itoa(version) + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	return u
}

// Do performs a request. Non-2xx responses return the response together with
// an *acsf.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var payload interface{}

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		payload = encoded
	}

	target := c.URL(req)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.credentials != nil {
		httpReq.SetBasicAuth(c.credentials.Username, c.credentials.APIKey)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"url":      target,
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
		})
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, acsf.ParseAPIError(httpResp.StatusCode, body)
	}

	resp.Data, err = decode(body)
	if err != nil {
		return resp, fmt.Errorf("parsing response: %w", err)
	}

	return resp, nil
}

// Get performs a GET request with query options.
func (c *Client) Get(ctx context.Context, path string, query map[string]any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: EncodeQuery(query)})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Body: body})
}

func decode(body []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil
	}

	var decoded any

	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()

	if err := decoder.Decode(&decoded); err != nil {
		return nil, err
	}

	if obj, ok := decoded.(map[string]any); ok {
		return obj, nil
	}

	return map[string]any{"data": decoded}, nil
}
