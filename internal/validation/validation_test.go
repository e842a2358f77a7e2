package validation_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/acsf-client/internal/validation"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

func TestLimitOptions(t *testing.T) {
	t.Parallel()

	options := map[string]any{"limit": 10, "page": 2, "bogus": true}

	limited := validation.LimitOptions(options, []string{"limit", "page", "canary"})
	assert.Equal(t, map[string]any{"limit": 10, "page": 2}, limited)

	assert.Empty(t, validation.LimitOptions(options, nil))
	assert.Contains(t, options, "bogus", "input must not be modified")
}

func TestConstrictPaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		options  map[string]any
		maxLimit int
		expected map[string]any
	}{
		{
			name:     "limit above max",
			options:  map[string]any{"limit": 500},
			maxLimit: 100,
			expected: map[string]any{"limit": 100},
		},
		{
			name:     "limit below one",
			options:  map[string]any{"limit": -3},
			maxLimit: 100,
			expected: map[string]any{"limit": 1},
		},
		{
			name:     "page has no upper bound",
			options:  map[string]any{"page": 9000},
			maxLimit: 100,
			expected: map[string]any{"page": 9000},
		},
		{
			name:     "page below one",
			options:  map[string]any{"page": 0},
			maxLimit: 100,
			expected: map[string]any{"page": 1},
		},
		{
			name:     "string values",
			options:  map[string]any{"limit": "25", "page": "abc"},
			maxLimit: 100,
			expected: map[string]any{"limit": 25, "page": 1},
		},
		{
			name:     "order normalized and other keys untouched",
			options:  map[string]any{"order": "ASC", "canary": "yes"},
			maxLimit: 100,
			expected: map[string]any{"order": "asc", "canary": "yes"},
		},
		{
			name:     "non positive max uses default",
			options:  map[string]any{"limit": 1000},
			maxLimit: 0,
			expected: map[string]any{"limit": 100},
		},
		{
			name:     "exponent beyond int range",
			options:  map[string]any{"limit": "1e30", "page": "1e30"},
			maxLimit: 100,
			expected: map[string]any{"limit": 100, "page": math.MaxInt},
		},
		{
			name:     "integer string beyond int range",
			options:  map[string]any{"limit": "99999999999999999999", "page": "-99999999999999999999"},
			maxLimit: 100,
			expected: map[string]any{"limit": 100, "page": 1},
		},
		{
			name:     "huge float",
			options:  map[string]any{"limit": 1e300, "page": json.Number("1e400")},
			maxLimit: 100,
			expected: map[string]any{"limit": 100, "page": math.MaxInt},
		},
		{
			name:     "custom max",
			options:  map[string]any{"limit": 30},
			maxLimit: 20,
			expected: map[string]any{"limit": 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, validation.ConstrictPaging(tt.options, tt.maxLimit))
		})
	}
}

func TestConstrictPaging_Idempotent(t *testing.T) {
	t.Parallel()

	for limit := -150; limit <= 250; limit += 7 {
		once := validation.ConstrictPaging(map[string]any{"limit": limit}, 100)
		twice := validation.ConstrictPaging(once, 100)

		assert.Equal(t, once, twice, "limit %d", limit)

		clamped, ok := once["limit"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, clamped, 1)
		assert.LessOrEqual(t, clamped, 100)
	}
}

func TestEnsureSortOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    any
		expected string
	}{
		{"asc", "asc"},
		{"ASC", "asc"},
		{"aSc", "asc"},
		{"desc", "desc"},
		{"DESC", "desc"},
		{"ascending", "desc"},
		{" asc", "desc"},
		{"", "desc"},
		{"garbage", "desc"},
		{42, "desc"},
		{nil, "desc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, validation.EnsureSortOrder(tt.input), "input %v", tt.input)
	}
}

func TestCleanIntArray(t *testing.T) {
	t.Parallel()

	t.Run("collapses equivalent values", func(t *testing.T) {
		t.Parallel()

		got := validation.CleanIntArray([]any{"5", 5, "05", "abc", "", nil, 7})
		assert.Equal(t, []int{5, 7}, got)
	})

	t.Run("keeps first occurrence order", func(t *testing.T) {
		t.Parallel()

		got := validation.CleanIntArray([]any{" 9 ", "3", 0, "0", 9, 3.0, float64(12), json.Number("4")})
		assert.Equal(t, []int{9, 3, 12, 4}, got)
	})

	t.Run("drops booleans and non numerics", func(t *testing.T) {
		t.Parallel()

		got := validation.CleanIntArray([]any{true, false, "1e", "0x10", "12abc", []int{1}})
		assert.Empty(t, got)
	})

	t.Run("truncates decimals", func(t *testing.T) {
		t.Parallel()

		got := validation.CleanIntArray([]any{"5.7", "-2", "1e2"})
		assert.Equal(t, []int{5, -2, 100}, got)
	})

	t.Run("drops values beyond int range", func(t *testing.T) {
		t.Parallel()

		got := validation.CleanIntArray([]any{"1e30", 5, "99999999999999999999", -1e300, json.Number("-1e19")})
		assert.Equal(t, []int{5}, got)
	})
}

func TestEnsureBool(t *testing.T) {
	t.Parallel()

	truthy := []any{true, "1", "true", "TRUE", "on", "On", "yes", " YES ", 1}
	for _, value := range truthy {
		assert.True(t, validation.EnsureBool(value), "value %#v", value)
	}

	falsy := []any{false, nil, "0", "false", "False", "off", "no", "", "maybe", "2", 0, 2, []string{"yes"}}
	for _, value := range falsy {
		assert.False(t, validation.EnsureBool(value), "value %#v", value)
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestValidateBackupOptions(t *testing.T) {
	t.Parallel()

	t.Run("invalid callback url", func(t *testing.T) {
		t.Parallel()

		_, err := validation.ValidateBackupOptions(map[string]any{"callback_url": "not a url"})
		require.Error(t, err)
		assert.ErrorIs(t, err, acsf.ErrInvalidOption)

		optErr := &acsf.InvalidOptionError{}
		require.True(t, errors.As(err, &optErr))
		assert.Equal(t, "callback_url", optErr.Option)
	})

	t.Run("relative callback url", func(t *testing.T) {
		t.Parallel()

		_, err := validation.ValidateBackupOptions(map[string]any{"callback_url": "/hooks/done"})
		assert.ErrorIs(t, err, acsf.ErrInvalidOption)
	})

	t.Run("valid callback", func(t *testing.T) {
		t.Parallel()

		got, err := validation.ValidateBackupOptions(map[string]any{
			"callback_url":    "https://example.com/hooks/done",
			"callback_method": "post",
		})
		require.NoError(t, err)
		assert.Equal(t, "POST", got["callback_method"])
		assert.Equal(t, "https://example.com/hooks/done", got["callback_url"])
	})

	t.Run("invalid callback method", func(t *testing.T) {
		t.Parallel()

		_, err := validation.ValidateBackupOptions(map[string]any{"callback_method": "PUT"})
		assert.ErrorIs(t, err, acsf.ErrInvalidOption)
	})

	t.Run("structured caller data is encoded", func(t *testing.T) {
		t.Parallel()

		got, err := validation.ValidateBackupOptions(map[string]any{
			"caller_data": map[string]any{"ticket": "OPS-12"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ticket":"OPS-12"}`, got["caller_data"].(string))
	})

	t.Run("string caller data is kept", func(t *testing.T) {
		t.Parallel()

		got, err := validation.ValidateBackupOptions(map[string]any{"caller_data": "raw"})
		require.NoError(t, err)
		assert.Equal(t, "raw", got["caller_data"])
	})

	t.Run("unknown components dropped", func(t *testing.T) {
		t.Parallel()

		got, err := validation.ValidateBackupOptions(map[string]any{
			"components": []any{"database", "bogus"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"components": []string{"database"}}, got)
	})

	t.Run("components matched case insensitively", func(t *testing.T) {
		t.Parallel()

		got, err := validation.ValidateBackupOptions(map[string]any{
			"components": []string{"Public Files", "THEMES", "codebase"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"codebase", "public files", "themes"}, got["components"])
	})

	t.Run("no valid components", func(t *testing.T) {
		t.Parallel()

		_, err := validation.ValidateBackupOptions(map[string]any{"components": []any{"bogus"}})
		assert.ErrorIs(t, err, acsf.ErrInvalidOption)
	})

	t.Run("components not a list", func(t *testing.T) {
		t.Parallel()

		_, err := validation.ValidateBackupOptions(map[string]any{"components": "database"})
		assert.ErrorIs(t, err, acsf.ErrInvalidOption)
	})
}

func TestRequirePatternMatch(t *testing.T) {
	t.Parallel()

	require.NoError(t, validation.RequirePatternMatch("now", `^(now|\d+)$`))
	require.NoError(t, validation.RequirePatternMatch("1700000000", `^(now|\d+)$`))

	err := validation.RequirePatternMatch("tomorrow", `^(now|\d+)$`)
	require.Error(t, err)
	assert.ErrorIs(t, err, acsf.ErrInvalidOption)
	assert.Contains(t, err.Error(), "tomorrow")
	assert.Contains(t, err.Error(), `^(now|\d+)$`)

	assert.ErrorIs(t, validation.RequirePatternMatch("x", "("), acsf.ErrInvalidOption)
}

func TestFilterArrayToValues(t *testing.T) {
	t.Parallel()

	allowed := []string{"code", "db", "registry"}

	got := validation.FilterArrayToValues([]string{" DB ", "code", "", "nope", "db"}, allowed, true)
	assert.Equal(t, []string{"code", "db"}, got)

	got = validation.FilterArrayToValues([]string{"DB", "code"}, allowed, false)
	assert.Equal(t, []string{"code"}, got)

	assert.Empty(t, validation.FilterArrayToValues(nil, allowed, true))
}

func TestRequireOneOf(t *testing.T) {
	t.Parallel()

	require.NoError(t, validation.RequireOneOf("Match", []string{"match"}, true))

	err := validation.RequireOneOf("Match", []string{"match"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, acsf.ErrInvalidOption)

	err = validation.RequireOption("level", "everything", []string{"task", "family"}, true)
	optErr := &acsf.InvalidOptionError{}
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "level", optErr.Option)
	assert.Equal(t, "everything", optErr.Value)
}
