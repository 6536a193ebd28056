package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: vidtube-test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vidtube-test", cfg.App.Name)
	assert.Equal(t, 8000, cfg.App.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTLDuration())
	assert.Equal(t, "vidtube.media.cleanup", cfg.Kafka.Topic("media_cleanup"))
	assert.Equal(t, "videos", cfg.Elasticsearch.VideosIndex())
	assert.False(t, cfg.Elasticsearch.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 6543
  user: u
  password: p
  dbname: vt
redis:
  host: cache
  port: 6380
cors:
  allow_origins:
    - https://vidtube.example
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "host=db.internal port=6543 user=u password=p dbname=vt sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, []string{"https://vidtube.example"}, cfg.CORS.AllowOrigins)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  host: filehost\n")
	t.Setenv("VIDTUBE_DATABASE_HOST", "envhost")
	t.Setenv("VIDTUBE_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestKafkaTopic_Fallback(t *testing.T) {
	k := KafkaConfig{}
	assert.Equal(t, "media_cleanup", k.Topic("media_cleanup"))
}
