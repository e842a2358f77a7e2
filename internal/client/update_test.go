package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestValidateUpdateOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options map[string]any
		want    map[string]any
		wantErr string
	}{
		{
			name:    "defaults to sites scope",
			options: map[string]any{"sites_ref": "tags/2.4.1"},
			want:    map[string]any{"scope": "sites", "sites_ref": "tags/2.4.1"},
		},
		{
			name: "both scopes with extras",
			options: map[string]any{
				"scope":       "BOTH",
				"sites_ref":   "main",
				"factory_ref": "tags/2.150.0",
				"start_time":  1790000000,
				"sites_type":  []any{"DB", "code", "bogus", "code"},
				"stack_id":    "2",
				"unknown":     "dropped",
			},
			want: map[string]any{
				"scope":       "both",
				"sites_ref":   "main",
				"factory_ref": "tags/2.150.0",
				"start_time":  "1790000000",
				"sites_type":  "code,db",
				"stack_id":    2,
			},
		},
		{
			name:    "missing sites ref",
			options: map[string]any{"scope": "sites"},
			wantErr: "sites_ref",
		},
		{
			name:    "missing factory ref",
			options: map[string]any{"scope": "factory"},
			wantErr: "factory_ref",
		},
		{
			name:    "invalid scope",
			options: map[string]any{"scope": "everything", "sites_ref": "main"},
			wantErr: "scope",
		},
		{
			name:    "invalid start time",
			options: map[string]any{"sites_ref": "main", "start_time": "tomorrow"},
			wantErr: "start_time",
		},
		{
			name:    "no known site types",
			options: map[string]any{"sites_ref": "main", "sites_type": []any{"theme"}},
			wantErr: "sites_type",
		},
		{
			name:    "invalid stack",
			options: map[string]any{"sites_ref": "main", "stack_id": -3},
			wantErr: "stack_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := validateUpdateOptions(tt.options)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, acsf.ErrInvalidOption)

				var optionErr *acsf.InvalidOptionError
				require.ErrorAs(t, err, &optionErr)
				assert.Equal(t, tt.wantErr, optionErr.Option)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdatesClient_StartAndList(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/update", r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			body := readJSON(t, r)
			assert.Equal(t, "sites", body["scope"])
			assert.Equal(t, "main", body["sites_ref"])
			writeJSON(t, w, http.StatusOK, map[string]any{"message": "Update initiated.", "task_id": 4000})
		case http.MethodGet:
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			writeJSON(t, w, http.StatusOK, map[string]any{"updates": []any{}})
		}
	})

	resp, err := client.Updates().Start(context.Background(), map[string]any{"sites_ref": "main"})
	require.NoError(t, err)

	taskID, err := acsf.TaskID(resp)
	require.NoError(t, err)
	assert.Equal(t, 4000, client.Update(taskID).ID())

	_, err = client.Updates().List(context.Background(), map[string]any{"limit": 1000})
	require.NoError(t, err)
}
