package acsfclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
	"github.com/fivetwenty-io/acsf-client/pkg/acsfclient"
)

func pingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/ping" {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		username, apiKey, ok := request.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "jdoe", username)
		assert.Equal(t, "secret", apiKey)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(map[string]any{"message": "pong"})
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("validates config", func(t *testing.T) {
		t.Parallel()

		_, err := acsfclient.New(context.Background(), nil)
		require.ErrorIs(t, err, acsf.ErrConfigRequired)

		_, err = acsfclient.New(context.Background(), &acsf.Config{APIKey: "secret", Sitegroup: "acme"})
		require.ErrorIs(t, err, acsf.ErrUsernameRequired)

		_, err = acsfclient.New(context.Background(), &acsf.Config{Username: "jdoe", Sitegroup: "acme"})
		require.ErrorIs(t, err, acsf.ErrAPIKeyRequired)

		_, err = acsfclient.New(context.Background(), &acsf.Config{Username: "jdoe", APIKey: "secret"})
		require.ErrorIs(t, err, acsf.ErrSitegroupRequired)
	})

	t.Run("skips connectivity check", func(t *testing.T) {
		t.Parallel()

		client, err := acsfclient.New(context.Background(), &acsf.Config{
			Username:              "jdoe",
			APIKey:                "secret",
			Sitegroup:             "acme",
			Environment:           " Test ",
			SkipConnectivityCheck: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("pings factory", func(t *testing.T) {
		t.Parallel()

		server := pingServer(t, http.StatusOK)

		client, err := acsfclient.NewWithBaseURL(context.Background(), server.URL+"/", "jdoe", "secret")
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("leaves caller config untouched", func(t *testing.T) {
		t.Parallel()

		server := pingServer(t, http.StatusOK)
		config := &acsf.Config{
			Username:    "jdoe",
			APIKey:      "secret",
			BaseURL:     server.URL + "/",
			Environment: " Test ",
		}
		original := *config

		client, err := acsfclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, original, *config)
	})

	t.Run("forbidden maps to invalid credentials", func(t *testing.T) {
		t.Parallel()

		server := pingServer(t, http.StatusForbidden)

		_, err := acsfclient.NewWithBaseURL(context.Background(), server.URL, "jdoe", "secret")
		require.ErrorIs(t, err, acsf.ErrInvalidCredentials)
		assert.True(t, acsf.IsForbidden(err))
	})

	t.Run("other failures stay transport errors", func(t *testing.T) {
		t.Parallel()

		server := pingServer(t, http.StatusInternalServerError)

		_, err := acsfclient.NewWithBaseURL(context.Background(), server.URL+"/api", "jdoe", "secret")
		require.Error(t, err)
		assert.NotErrorIs(t, err, acsf.ErrInvalidCredentials)

		var apiErr *acsf.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}
