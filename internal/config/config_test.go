package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	v.Set("TMDB_API_KEY", "secret")
	v.Set("CONFIG_DIR", dir)

	cfg, err := load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, time.Hour, cfg.TMDBCacheTTL)
	assert.Equal(t, 2, cfg.TMDBRetries)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, dir+"/cinelist.db", cfg.DatabaseDSN)
	assert.Equal(t, dir+"/preferences.db", cfg.PreferencesFile)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 8, cfg.ImportConcurrency)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdle)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]interface{}
	}{
		{name: "missing api key", set: map[string]interface{}{}},
		{name: "unknown driver", set: map[string]interface{}{"TMDB_API_KEY": "k", "DATABASE_DRIVER": "mysql"}},
		{name: "postgres without dsn", set: map[string]interface{}{"TMDB_API_KEY": "k", "DATABASE_DRIVER": "postgres"}},
		{name: "redis without addr", set: map[string]interface{}{"TMDB_API_KEY": "k", "CACHE_BACKEND": "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("CONFIG_DIR", t.TempDir())
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := load(v)
			assert.Error(t, err)
		})
	}
}
