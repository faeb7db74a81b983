package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mergington-activities/internal/common/config"
)

func TestRetryWithBackoff(t *testing.T) {
	log := zaptest.NewLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(func() error {
		calls++
		return errors.New("down")
	}, 3, time.Millisecond, log, "broken op")
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "broken op failed after 3 attempts")
}

func TestConnectBackends_NoneEnabled(t *testing.T) {
	b, err := connectBackends(context.Background(), &config.Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer b.Close()

	assert.Empty(t, b.sinks)
	assert.Empty(t, b.checks)
}

func TestConnectBackends_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Database.Redis = config.RedisConfig{
		Enabled:    true,
		Address:    mr.Addr(),
		Channel:    "activities:events",
		RecentKey:  "activities:events:recent",
		RecentSize: 10,
	}

	b, err := connectBackends(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer b.Close()

	require.Len(t, b.sinks, 1)
	assert.Equal(t, "redis", b.sinks[0].Name())
	require.Len(t, b.checks, 1)
	assert.NoError(t, b.checks[0].Check(context.Background()))
}
