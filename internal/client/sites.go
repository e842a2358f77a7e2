package client

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// SitesClient implements acsf.SitesClient.
type SitesClient struct {
	client *Client
}

// EndpointName implements acsf.Endpoint.
func (c *SitesClient) EndpointName() string {
	return "Sites"
}

// List returns a page of sites. Options: limit, page, canary, show_incomplete.
func (c *SitesClient) List(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.LimitOptions(options, []string{"limit", "page", "canary", "show_incomplete"})
	query = validation.ConstrictPaging(query, 0)

	for _, flag := range []string{"canary", "show_incomplete"} {
		if raw, ok := query[flag]; ok {
			query[flag] = validation.EnsureBool(raw)
		}
	}

	resp, err := c.client.httpClient.Get(ctx, "sites", query)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}

	return resp.Data, nil
}

// Site implements acsf.SiteEntity.
type Site struct {
	client *Client
	id     int
}

// EndpointName implements acsf.Endpoint.
func (s *Site) EndpointName() string {
	return "Site"
}

// ID returns the site node ID.
func (s *Site) ID() int {
	return s.id
}

// Details returns the site record.
func (s *Site) Details(ctx context.Context) (map[string]any, error) {
	resp, err := s.client.httpClient.Get(ctx, http.Path("sites", s.id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting site %d: %w", s.id, err)
	}

	return resp.Data, nil
}

// Delete removes the site. The response carries a "task_id".
func (s *Site) Delete(ctx context.Context) (map[string]any, error) {
	resp, err := s.client.httpClient.Delete(ctx, http.Path("sites", s.id), nil)
	if err != nil {
		return nil, fmt.Errorf("deleting site %d: %w", s.id, err)
	}

	return resp.Data, nil
}

// ClearCaches clears Varnish and Drupal caches for the site.
func (s *Site) ClearCaches(ctx context.Context) (map[string]any, error) {
	resp, err := s.client.httpClient.Post(ctx, http.Path("sites", s.id, "cache-clear"), nil)
	if err != nil {
		return nil, fmt.Errorf("clearing caches for site %d: %w", s.id, err)
	}

	return resp.Data, nil
}

// Backup starts a backup. Options: label, callback_url, callback_method,
// caller_data and components. The response carries a "task_id".
func (s *Site) Backup(ctx context.Context, options map[string]any) (map[string]any, error) {
	body := validation.LimitOptions(options, []string{
		"label", "callback_url", "callback_method", "caller_data", "components",
	})

	body, err := validation.ValidateBackupOptions(body)
	if err != nil {
		return nil, err
	}

	if label, ok := body["label"]; ok {
		body["label"] = cast.ToString(label)
	}

	resp, err := s.client.httpClient.Post(ctx, http.Path("sites", s.id, "backup"), body)
	if err != nil {
		return nil, fmt.Errorf("backing up site %d: %w", s.id, err)
	}

	return resp.Data, nil
}

// ListBackups returns the site's backups. Options: limit, page, order.
func (s *Site) ListBackups(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.ConstrictPaging(validation.LimitOptions(options, []string{"limit", "page", "order"}), 0)

	resp, err := s.client.httpClient.Get(ctx, http.Path("sites", s.id, "backups"), query)
	if err != nil {
		return nil, fmt.Errorf("listing backups for site %d: %w", s.id, err)
	}

	return resp.Data, nil
}

// GetBackup returns a handle on one of the site's backups.
func (s *Site) GetBackup(backupID int) acsf.BackupEntity {
	return &Backup{client: s.client, id: backupID, site: s}
}
