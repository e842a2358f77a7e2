// Package acsf provides types, interfaces, and helpers for working with the
// Acquia Cloud Site Factory REST API.
//
// # Overview
//
// The acsf package defines the endpoint interfaces (actions such as
// SitesClient and entities such as TaskEntity), the WIP task status codes and
// the error kinds shared by every wrapper. A concrete implementation is
// provided by the acsfclient package, which wires configuration, transport
// and the connectivity check.
//
// Getting a client
//
//	ctx := context.Background()
//	cli, err := acsfclient.New(ctx, &acsf.Config{
//	  Username:    "jdoe",
//	  APIKey:      os.Getenv("ACSF_API_KEY"),
//	  Sitegroup:   "mysitegroup",
//	  Environment: "dev",
//	})
//	if err != nil { log.Fatal(err) }
//
// # Waiting on tasks
//
// Task-producing calls return a response carrying a "task_id". Wrap it in a
// TaskEntity and block until the task reaches a terminal status:
//
//	resp, err := cli.Site(123).Backup(ctx, map[string]any{"label": "nightly"})
//	if err != nil { log.Fatal(err) }
//	id, err := acsf.TaskID(resp)
//	if err != nil { log.Fatal(err) }
//	elapsed, err := cli.Task(id).WaitUntilDone(ctx, 30, func(t acsf.TaskHandle, s acsf.StatusSnapshot) {
//	  log.Printf("task %d: %s", t.ID(), s.String("status_string"))
//	}, "")
//
// WaitUntilDone polls at a fixed interval (minimum one second), invokes the
// tick callback on every poll including the last, and stops once the status
// is one of Completed, Warning, Error, SystemError or Killed. Unrecognized
// codes keep the loop running. Cancel the context to abort a wait early.
//
// # Errors
//
// Validation failures match ErrInvalidOption and are raised before any
// request is sent. Unknown registry names match ErrMissingAction or
// ErrMissingEntity. Transport failures surface as *APIError or the underlying
// network error, unchanged by the wait loop.
//
// # Caching
//
// Stacks and VCS refs are memoized through the Cache set on Config. Use
// NewMemoryCache for a process-local TTL cache, NewNATSKVCache to share
// entries through a JetStream bucket, or leave it nil to always hit the API.
package acsf
