package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/acsf-client/internal/http"
	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

var callbackOptions = []string{"callback_url", "callback_method", "caller_data"}

// Backup implements acsf.BackupEntity. It is always owned by a Site.
type Backup struct {
	client *Client
	id     int
	site   *Site
}

// EndpointName implements acsf.Endpoint.
func (b *Backup) EndpointName() string {
	return "Backup"
}

// ID returns the backup ID.
func (b *Backup) ID() int {
	return b.id
}

// Site returns the owning site.
func (b *Backup) Site() acsf.SiteEntity {
	return b.site
}

// URL returns a temporary download link. Options: lifetime (seconds).
func (b *Backup) URL(ctx context.Context, options map[string]any) (map[string]any, error) {
	query := validation.LimitOptions(options, []string{"lifetime"})

	if raw, ok := query["lifetime"]; ok {
		lifetime := validation.CleanIntArray([]any{raw})
		if len(lifetime) == 0 || lifetime[0] < 1 {
			return nil, acsf.NewInvalidOption("lifetime", raw, "must be a positive number of seconds")
		}

		query["lifetime"] = lifetime[0]
	}

	resp, err := b.client.httpClient.Get(ctx, http.Path("sites", b.site.id, "backups", b.id, "url"), query)
	if err != nil {
		return nil, fmt.Errorf("getting URL for backup %d: %w", b.id, err)
	}

	return resp.Data, nil
}

// Delete removes the backup. Options: callback_url, callback_method, caller_data.
func (b *Backup) Delete(ctx context.Context, options map[string]any) (map[string]any, error) {
	body, err := validation.ValidateBackupOptions(validation.LimitOptions(options, callbackOptions))
	if err != nil {
		return nil, err
	}

	resp, err := b.client.httpClient.Delete(ctx, http.Path("sites", b.site.id, "backups", b.id), body)
	if err != nil {
		return nil, fmt.Errorf("deleting backup %d: %w", b.id, err)
	}

	return resp.Data, nil
}

// Restore restores the backup onto target_site_id (default: the owning
// site). Options additionally accept components and the callback options.
func (b *Backup) Restore(ctx context.Context, options map[string]any) (map[string]any, error) {
	allowed := append([]string{"target_site_id", "components"}, callbackOptions...)

	body, err := validation.ValidateBackupOptions(validation.LimitOptions(options, allowed))
	if err != nil {
		return nil, err
	}

	target := b.site.id

	if raw, ok := body["target_site_id"]; ok {
		ids := validation.CleanIntArray([]any{raw})
		if len(ids) == 0 || ids[0] < 1 {
			return nil, acsf.NewInvalidOption("target_site_id", raw, "must be a positive integer")
		}

		target = ids[0]
	}

	body["target_site_id"] = target
	body["backup_id"] = b.id

	resp, err := b.client.httpClient.Post(ctx, http.Path("sites", b.site.id, "restore"), body)
	if err != nil {
		return nil, fmt.Errorf("restoring backup %d: %w", b.id, err)
	}

	return resp.Data, nil
}
