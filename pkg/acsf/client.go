package acsf

import (
	"context"
	"time"
)

// Endpoint is implemented by every action and entity wrapper.
type Endpoint interface {
	EndpointName() string
}

// TickFunc is invoked once per poll with the freshly fetched snapshot.
type TickFunc func(task TaskHandle, snapshot StatusSnapshot)

// TaskHandle is an asynchronous job that can be polled until it finishes.
type TaskHandle interface {
	Endpoint
	ID() int
	Status(ctx context.Context) (StatusSnapshot, error)
	// WaitUntilDone blocks until the status at statusKey is terminal and
	// returns the number of seconds spent sleeping between polls.
	WaitUntilDone(ctx context.Context, pollInterval int, onTick TickFunc, statusKey string) (int, error)
}

// TaskEntity is a single WIP task.
type TaskEntity interface {
	TaskHandle
	Parent() TaskEntity
	Pause(ctx context.Context, paused bool, options map[string]any) (map[string]any, error)
	Resume(ctx context.Context, options map[string]any) (map[string]any, error)
	Stop(ctx context.Context) (map[string]any, error)
	Delete(ctx context.Context) (map[string]any, error)
	Logs(ctx context.Context, options map[string]any) (map[string]any, error)
}

// UpdateEntity is a single code update process.
type UpdateEntity interface {
	TaskHandle
	Pause(ctx context.Context, paused bool) (map[string]any, error)
}

// TasksClient lists WIP tasks.
type TasksClient interface {
	Endpoint
	List(ctx context.Context, options map[string]any) (map[string]any, error)
}

// SitesClient lists sites.
type SitesClient interface {
	Endpoint
	List(ctx context.Context, options map[string]any) (map[string]any, error)
}

// SiteEntity is a single site.
type SiteEntity interface {
	Endpoint
	ID() int
	Details(ctx context.Context) (map[string]any, error)
	Delete(ctx context.Context) (map[string]any, error)
	ClearCaches(ctx context.Context) (map[string]any, error)
	Backup(ctx context.Context, options map[string]any) (map[string]any, error)
	ListBackups(ctx context.Context, options map[string]any) (map[string]any, error)
	GetBackup(backupID int) BackupEntity
}

// BackupEntity is a single site backup.
type BackupEntity interface {
	Endpoint
	ID() int
	Site() SiteEntity
	URL(ctx context.Context, options map[string]any) (map[string]any, error)
	Delete(ctx context.Context, options map[string]any) (map[string]any, error)
	Restore(ctx context.Context, options map[string]any) (map[string]any, error)
}

// StageClient copies sites between environments.
type StageClient interface {
	Endpoint
	Environments(ctx context.Context) ([]string, error)
	Stage(ctx context.Context, environment string, siteIDs []any, options map[string]any) (map[string]any, error)
}

// UpdatesClient starts and lists code updates.
type UpdatesClient interface {
	Endpoint
	Start(ctx context.Context, options map[string]any) (map[string]any, error)
	List(ctx context.Context, options map[string]any) (map[string]any, error)
}

// VcsClient lists deployable refs.
type VcsClient interface {
	Endpoint
	Refs(ctx context.Context, options map[string]any) (map[string]any, error)
}

// StacksClient lists the factory's stacks.
type StacksClient interface {
	Endpoint
	List(ctx context.Context) (map[string]any, error)
}

// Registry resolves endpoint wrappers by name.
type Registry interface {
	Action(name string) (Endpoint, error)
	Entity(name string, id int, parent Endpoint) (Endpoint, error)
}

// Client is the full Site Factory API surface.
type Client interface {
	Registry

	Ping(ctx context.Context) (map[string]any, error)
	Sites() SitesClient
	Site(id int) SiteEntity
	Tasks() TasksClient
	Task(id int) TaskEntity
	Stage() StageClient
	Updates() UpdatesClient
	Update(id int) UpdateEntity
	Vcs() VcsClient
	Stacks() StacksClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// The API base URL is derived from Sitegroup and Environment as
// "https://www.<environment>-<sitegroup>.acsitefactory.com/api/v<N>", with
// the environment segment dropped for "prod". BaseURL overrides the
// derivation and should point at the "/api" root.
type Config struct {
	// Username and APIKey are sent as HTTP basic auth on every request.
	Username string
	APIKey   string

	Sitegroup   string
	Environment string
	BaseURL     string

	// HTTPTimeout bounds a single HTTP exchange. Waiting on tasks is governed
	// by the context passed to WaitUntilDone.
	HTTPTimeout time.Duration
	// RetryMax enables transport retries on 5xx and 429 responses.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Debug     bool
	Logger    Logger
	UserAgent string

	// Cache backs memoized lookups such as stacks and VCS refs. Nil disables caching.
	Cache Cache

	// SkipConnectivityCheck disables the ping run by acsfclient.New.
	SkipConnectivityCheck bool
}
