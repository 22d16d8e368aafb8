package server

import (
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Origins())
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestConfigFromEnvSetOverrides(t *testing.T) {
	cfg, err := ConfigFromEnvSet(env.EnvSet{
		"HOST":             "127.0.0.1",
		"PORT":             "9000",
		"ALLOWED_ORIGINS":  "http://a.example, https://b.example",
		"MAX_MESSAGE_SIZE": "1024",
		"SEND_BUFFER_SIZE": "8",
		"SHUTDOWN_TIMEOUT": "3s",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "json",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.Origins())
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 8, cfg.SendBufferSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestConfigFromEnvSetRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		set  env.EnvSet
	}{
		{name: "non numeric port", set: env.EnvSet{"PORT": "http"}},
		{name: "port out of range", set: env.EnvSet{"PORT": "70000"}},
		{name: "zero port", set: env.EnvSet{"PORT": "0"}},
		{name: "negative message size", set: env.EnvSet{"MAX_MESSAGE_SIZE": "-1"}},
		{name: "zero send buffer", set: env.EnvSet{"SEND_BUFFER_SIZE": "0"}},
		{name: "unknown log format", set: env.EnvSet{"LOG_FORMAT": "xml"}},
		{name: "unknown log level", set: env.EnvSet{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromEnvSet(tt.set)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "9123")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9123, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}
