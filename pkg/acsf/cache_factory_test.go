package acsf_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

var errBackendDown = errors.New("backend down")

// closingCache is a memory cache that records Close calls.
type closingCache struct {
	*acsf.MemoryCache

	closed int
}

func (c *closingCache) Close() error {
	c.closed++

	return nil
}

// recordingLogger captures warnings.
type recordingLogger struct {
	warnings []map[string]interface{}
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}

func (l *recordingLogger) Info(string, map[string]interface{}) {}

func (l *recordingLogger) Warn(_ string, fields map[string]interface{}) {
	l.warnings = append(l.warnings, fields)
}

func (l *recordingLogger) Error(string, map[string]interface{}) {}

// mockCache implements acsf.Cache for testing.
type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestCacheFactory_MemoryCache(t *testing.T) {
	t.Parallel()

	config := &acsf.CacheConfig{
		Type: acsf.CacheTypeMemory,
		Memory: &acsf.MemoryCacheConfig{
			MaxSize: 10,
			TTL:     "1m",
		},
	}

	cache, err := acsf.NewCacheFromConfig(config)
	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stacks", []byte(`{"stacks":{}}`)))

	value, err := cache.Get(ctx, "stacks")
	require.NoError(t, err)
	assert.JSONEq(t, `{"stacks":{}}`, string(value))

	require.NoError(t, cache.Delete(ctx, "stacks"))

	_, err = cache.Get(ctx, "stacks")
	assert.ErrorIs(t, err, acsf.ErrCacheMiss)
}

func TestCacheFactory_NoOpCache(t *testing.T) {
	t.Parallel()

	cache, err := acsf.NewCacheFromConfig(&acsf.CacheConfig{Type: acsf.CacheTypeNone})
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stacks", []byte("{}")))

	_, err = cache.Get(ctx, "stacks")
	require.ErrorIs(t, err, acsf.ErrCacheDisabled)

	require.NoError(t, cache.Delete(ctx, "stacks"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheFactory_Errors(t *testing.T) {
	t.Parallel()

	_, err := acsf.NewCacheFromConfig(&acsf.CacheConfig{Type: acsf.CacheType("redis")})
	require.ErrorIs(t, err, acsf.ErrUnsupportedCacheType)
	assert.Contains(t, err.Error(), "redis")

	_, err = acsf.NewCacheFromConfig(&acsf.CacheConfig{Type: acsf.CacheTypeNATS})
	require.ErrorIs(t, err, acsf.ErrNATSConfigRequired)

	_, err = acsf.NewCacheFromConfig(&acsf.CacheConfig{Type: acsf.CacheTypeTiered})
	require.ErrorIs(t, err, acsf.ErrNATSConfigRequired)

	_, err = acsf.NewCacheFromConfig(&acsf.CacheConfig{
		Type:   acsf.CacheTypeTiered,
		Memory: &acsf.MemoryCacheConfig{TTL: "soon"},
		NATS:   &acsf.NATSKVConfig{Bucket: "acsf-cache"},
	})
	require.Error(t, err)

	_, err = acsf.NewCacheFromConfig(&acsf.CacheConfig{
		Type:   acsf.CacheTypeMemory,
		Memory: &acsf.MemoryCacheConfig{TTL: "soon"},
	})
	require.Error(t, err)
}

func TestDefaultCacheConfig(t *testing.T) {
	t.Parallel()

	config := acsf.DefaultCacheConfig()
	assert.Equal(t, acsf.CacheTypeMemory, config.Type)
	require.NotNil(t, config.Memory)
	assert.Equal(t, acsf.DefaultCacheSize, config.Memory.MaxSize)
	assert.Equal(t, "5m0s", config.Memory.TTL)

	cache, err := acsf.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &acsf.MemoryCache{}, cache)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache := acsf.NewMemoryCache(4, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "vcs.sites", []byte("[]")))
	assert.Equal(t, 1, cache.Len())

	assert.Eventually(t, func() bool {
		_, err := cache.Get(ctx, "vcs.sites")

		return errors.Is(err, acsf.ErrCacheMiss)
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()

	cache := acsf.NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, key, []byte(key)))
	}

	assert.Equal(t, 2, cache.Len())

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, acsf.ErrCacheMiss)

	require.NoError(t, cache.Clear(ctx))
	assert.Zero(t, cache.Len())
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	l1 := acsf.NewMemoryCache(10, time.Minute)
	l2 := acsf.NewMemoryCache(100, time.Minute)
	chain := acsf.NewCacheChain(l1, l2)
	ctx := context.Background()

	require.NoError(t, chain.Set(ctx, "stacks", []byte("chain")))
	require.NoError(t, l1.Delete(ctx, "stacks"))

	value, err := chain.Get(ctx, "stacks")
	require.NoError(t, err)
	assert.Equal(t, []byte("chain"), value)

	// L1 was refilled from L2.
	value, err = l1.Get(ctx, "stacks")
	require.NoError(t, err)
	assert.Equal(t, []byte("chain"), value)

	require.NoError(t, chain.Delete(ctx, "stacks"))

	_, err = chain.Get(ctx, "stacks")
	require.ErrorIs(t, err, acsf.ErrCacheMiss)
	assert.ErrorIs(t, err, acsf.ErrKeyNotFoundInAnyCache)
}

func TestCacheChain_BackendErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	failing := &mockCache{}
	memory := acsf.NewMemoryCache(10, time.Minute)

	failing.On("Get", ctx, "vcs.sites").Return(nil, errBackendDown)
	failing.On("Set", ctx, "vcs.sites", []byte("refs")).Return(errBackendDown)
	failing.On("Clear", ctx).Return(nil)

	chain := acsf.NewCacheChain(failing, memory)

	err := chain.Set(ctx, "vcs.sites", []byte("refs"))
	require.ErrorIs(t, err, errBackendDown)

	value, err := chain.Get(ctx, "vcs.sites")
	require.NoError(t, err)
	assert.Equal(t, []byte("refs"), value)

	require.NoError(t, chain.Clear(ctx))
	assert.Zero(t, memory.Len())

	failing.AssertExpectations(t)
}

func TestCacheChain_WriteBackFailureIsLogged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := &mockCache{}
	l2 := acsf.NewMemoryCache(10, time.Minute)
	logger := &recordingLogger{}

	require.NoError(t, l2.Set(ctx, "stacks", []byte("shared")))

	l1.On("Get", ctx, "stacks").Return(nil, acsf.ErrCacheMiss)
	l1.On("Set", ctx, "stacks", []byte("shared")).Return(errBackendDown)

	chain := acsf.NewCacheChain(l1, l2).WithLogger(logger)

	value, err := chain.Get(ctx, "stacks")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), value)

	require.Len(t, logger.warnings, 1)
	assert.Equal(t, "stacks", logger.warnings[0]["key"])
	assert.Equal(t, 1, logger.warnings[0]["level"])
	assert.Equal(t, errBackendDown.Error(), logger.warnings[0]["error"])

	l1.AssertExpectations(t)
}

func TestCacheChain_Close(t *testing.T) {
	t.Parallel()

	shared := &closingCache{MemoryCache: acsf.NewMemoryCache(10, time.Minute)}
	chain := acsf.NewCacheChain(acsf.NewMemoryCache(10, time.Minute), shared)

	require.NoError(t, chain.Close())
	assert.Equal(t, 1, shared.closed)
}
