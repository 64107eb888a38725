// internal/bureau/cache_test.go
package bureau

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolend-workers/internal/common/config"
	"algolend-workers/internal/common/database"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/models"
)

// countingClient records how many times the inner fetch runs.
type countingClient struct {
	calls  int
	report *models.BureauReport
	err    error
}

func (c *countingClient) FetchReport(_ context.Context, _ string) (*models.BureauReport, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.report, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCachedClient_ReadThrough(t *testing.T) {
	mr, rdb := newTestRedis(t)

	inner := &countingClient{report: sampleReport()}
	cached := NewCachedClient(inner, rdb, time.Hour, logger.NewTestLogger(t))

	first, err := cached.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, 640.0, first.CreditScore)
	assert.Equal(t, 1, inner.calls)

	// second fetch is served from cache
	second, err := cached.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, first.CreditScore, second.CreditScore)
	assert.Equal(t, 1, inner.calls)

	// TTL expiry forces a fresh fetch
	mr.FastForward(2 * time.Hour)
	_, err = cached.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedClient_CorruptEntryRefetches(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set(cacheKey(testIdentity), "not-json"))

	inner := &countingClient{report: sampleReport()}
	cached := NewCachedClient(inner, rdb, time.Hour, logger.NewTestLogger(t))

	report, err := cached.FetchReport(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, 640.0, report.CreditScore)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedClient_InnerErrorNotCached(t *testing.T) {
	_, rdb := newTestRedis(t)

	inner := &countingClient{err: assert.AnError}
	cached := NewCachedClient(inner, rdb, time.Hour, logger.NewTestLogger(t))

	_, err := cached.FetchReport(context.Background(), testIdentity)
	assert.Error(t, err)

	_, err = cached.FetchReport(context.Background(), testIdentity)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
