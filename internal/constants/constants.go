package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout bounds the connectivity check run by acsfclient.New.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// API versions.
const (
	// DefaultAPIVersion is used when a request does not name one.
	DefaultAPIVersion = 1

	// StageAPIVersion serves the stage endpoints.
	StageAPIVersion = 2
)

// Site Factory hosts.
const (
	// FactoryDomain is the domain every factory lives under.
	FactoryDomain = "acsitefactory.com"

	// ProductionEnvironment is omitted from the factory hostname.
	ProductionEnvironment = "prod"
)

// Task polling.
const (
	// DefaultPollInterval is the default number of seconds between status polls.
	DefaultPollInterval = 60

	// MinPollInterval is the smallest delay the wait loop will sleep.
	MinPollInterval = 1
)

// Pagination limits.
const (
	// DefaultMaxLimit is the largest page size the API accepts.
	DefaultMaxLimit = 100

	// DefaultPageSize is used by the CLI when no limit is given.
	DefaultPageSize = 10
)

// Cache keys.
const (
	// StacksCacheKey holds the stacks listing.
	StacksCacheKey = "stacks"

	// VcsCacheKeyPrefix prefixes VCS ref listings.
	VcsCacheKeyPrefix = "vcs"
)
