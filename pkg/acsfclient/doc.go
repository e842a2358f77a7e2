// Package acsfclient provides the primary entry point for constructing an
// Acquia Cloud Site Factory API client that implements the acsf.Client
// interface.
//
// It validates the configuration, derives the factory URL from the sitegroup
// and environment, and checks the API with a ping so bad credentials surface
// at construction time as acsf.ErrInvalidCredentials.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/acsf-client/pkg/acsf"
//	  "github.com/fivetwenty-io/acsf-client/pkg/acsfclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := acsfclient.New(ctx, &acsf.Config{
//	    Sitegroup:   "acme",
//	    Environment: "test",
//	    Username:    "jdoe",
//	    APIKey:      "0123456789abcdef",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := cli.Site(101).Backup(ctx, map[string]any{"label": "nightly"})
//	  if err != nil { log.Fatal(err) }
//
//	  id, err := acsf.TaskID(resp)
//	  if err != nil { log.Fatal(err) }
//
//	  elapsed, err := cli.Task(id).WaitUntilDone(ctx, 30, nil, "")
//	  if err != nil { log.Fatal(err) }
//	  log.Printf("backup finished after %ds", elapsed)
//	}
//
// # Environments
//
// Environment "prod" (or empty) addresses https://www.<sitegroup>.acsitefactory.com;
// any other value is prefixed, as in https://www.test-<sitegroup>.acsitefactory.com.
// Config.BaseURL overrides the derived root entirely.
package acsfclient
