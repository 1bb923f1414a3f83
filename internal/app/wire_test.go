package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/cinelist/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		TMDBAPIKey:        "test-key",
		TMDBBaseURL:       "http://127.0.0.1:0",
		TMDBCacheTTL:      time.Minute,
		CacheBackend:      "memory",
		DatabaseDriver:    "sqlite",
		DatabaseDSN:       filepath.Join(dir, "cinelist.db"),
		PreferencesFile:   filepath.Join(dir, "preferences.db"),
		ServerPort:        "0",
		ImportConcurrency: 4,
		SessionIdle:       time.Hour,
		LogLevel:          "panic",
	}
}

func TestInitializeApp(t *testing.T) {
	a, cleanup, err := InitializeApp(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.Scheduler)
	assert.NoError(t, a.DB.Ping(context.Background()))
}

func TestInitializeCLISharesStore(t *testing.T) {
	cfg := testConfig(t)

	cli, cleanup, err := InitializeCLI(cfg)
	require.NoError(t, err)

	sess, err := cli.Sessions.Get(context.Background(), "user-1")
	require.NoError(t, err)
	_, _, err = sess.Watchlists.Create(context.Background(), "Later")
	require.NoError(t, err)
	cleanup()

	// a second process sees what the first one stored
	cli, cleanup, err = InitializeCLI(cfg)
	require.NoError(t, err)
	defer cleanup()

	sess, err = cli.Sessions.Get(context.Background(), "user-1")
	require.NoError(t, err)
	lists := sess.Watchlists.List()
	require.Len(t, lists, 1)
	assert.Equal(t, "Later", lists[0].Name)
}

func TestInitializeRejectsUnknownCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = "memcached"

	_, _, err := InitializeCLI(cfg)
	assert.Error(t, err)
}

func TestProvideAccessLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	access, cleanup := provideAccessLog(&config.Config{AccessLog: path})

	logger := zerolog.Logger(access)
	logger.Info().Str("path", "/health").Msg("HTTP request")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/health"`)
}
