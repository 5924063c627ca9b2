//go:build integration_test || all_tests

package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/healthme/internal"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) dbConnections() int {
	var count int
	require.NoError(s.T(), s.DB.QueryRow(
		`SELECT count(*) FROM pg_stat_activity WHERE datname = $1`, testDBName,
	).Scan(&count))
	return count
}

func redisConnections(ctx context.Context, rdb *redis.Client) (int, error) {
	clients, err := rdb.ClientList(ctx).Result()
	if err != nil {
		return 0, err
	}
	return len(strings.Split(strings.TrimSpace(clients), "\n")), nil
}

func (s *IntegrationTestSuite) TestNewServer_FailedSetupReleasesConnections() {
	t := s.T()
	ctx := context.Background()

	// a regular file where the charts dir should be makes the chart store fail
	notADir := filepath.Join(t.TempDir(), "charts")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	cfg := s.getTestConfig(s.redisPort, s.pgPort)
	cfg.ChartsDir = notADir

	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:" + cfg.RedisPort,
	})
	defer func() {
		assert.NoError(t, rdb.Close())
	}()

	dbBefore := s.dbConnections()
	redisBefore, err := redisConnections(ctx, rdb)
	require.NoError(t, err)

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		HoneycombTracingEnabled: false,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new chart store")
	assert.Nil(t, server)

	assert.Eventually(t, func() bool {
		return s.dbConnections() <= dbBefore
	}, 5*time.Second, 100*time.Millisecond, "db pool left open")

	assert.Eventually(t, func() bool {
		redisNow, err := redisConnections(ctx, rdb)
		return err == nil && redisNow <= redisBefore
	}, 5*time.Second, 100*time.Millisecond, "redis client left open")
}
