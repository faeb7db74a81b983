package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: activities-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "activities-test", cfg.App.Name)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 256, cfg.Events.QueueSize)
	assert.Equal(t, "activities:events", cfg.Database.Redis.Channel)
	assert.Equal(t, "roster-events", cfg.Database.Elasticsearch.Index)
	assert.False(t, cfg.Database.Postgres.Enabled)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoadFromFile_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
  cors_origins: ["http://localhost:5173", " "]
logging:
  level: DEBUG
  format: console
catalog:
  path: configs/activities.json
database:
  redis:
    enabled: true
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "configs/activities.json", cfg.Catalog.Path)
	assert.True(t, cfg.Database.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("LOGGING_LEVEL", "warn")
	t.Setenv("DATABASE_REDIS_CHANNEL", "roster")
	path := writeConfig(t, "server:\n  address: \":9090\"\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "roster", cfg.Database.Redis.Channel)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("ROSTER_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
database:
  postgres:
    enabled: true
    host: localhost
    database: activities
    user: activities
    password: ${ROSTER_DB_PASSWORD}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "password=s3cret")
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "sslmode=disable")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "bad log level",
			body:    "logging:\n  level: verbose\n",
			wantErr: "logging.level",
		},
		{
			name:    "postgres enabled without host",
			body:    "database:\n  postgres:\n    enabled: true\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "redis enabled without address",
			body:    "database:\n  redis:\n    enabled: true\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "elasticsearch enabled without addresses",
			body:    "database:\n  elasticsearch:\n    enabled: true\n",
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "email enabled without sender",
			body:    "notifications:\n  email:\n    enabled: true\n",
			wantErr: "notifications.email.from_email",
		},
		{
			name:    "sns enabled without topic",
			body:    "notifications:\n  sns:\n    enabled: true\n",
			wantErr: "notifications.sns.topic_arn",
		},
		{
			name:    "sample ratio out of range",
			body:    "tracing:\n  sample_ratio: 2\n",
			wantErr: "tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNotificationConfig_AWSEnabled(t *testing.T) {
	var n NotificationConfig
	assert.False(t, n.AWSEnabled())
	n.SNS.Enabled = true
	assert.True(t, n.AWSEnabled())
}
