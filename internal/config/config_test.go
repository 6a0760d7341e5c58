package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	require.Equal(t, 7, cfg.Sync.WindowDays)
	require.Equal(t, 3, cfg.Token.RetryAttempts)
	require.Equal(t, 5*time.Second, cfg.Token.RetryDelay)
	require.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "fitsync", cfg.Metrics.JobName)
	require.False(t, cfg.Telegram.Enabled)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
version: "1"
sync:
  window_days: 3
token:
  retry_attempts: 5
  retry_delay: 2s
log:
  level: debug
`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Sync.WindowDays)
	require.Equal(t, 5, cfg.Token.RetryAttempts)
	require.Equal(t, 2*time.Second, cfg.Token.RetryDelay)
	require.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections still get defaults.
	require.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative window": "sync:\n  window_days: -1\n",
		"bad log level":   "log:\n  level: loud\n",
		"telegram no token": `
telegram:
  enabled: true
  chat_id: 42
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)

			var validationErr *errors.ErrConfigValidation
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("{{not yaml"))

	var parseErr *errors.ErrConfigParse
	require.ErrorAs(t, err, &parseErr)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	var notFound *errors.ErrConfigNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestLoadOptionalFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Sync.WindowDays)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("TEST_PUSHGW", "http://gateway:9091")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "metrics:\n  pushgateway_url: ${TEST_PUSHGW}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://gateway:9091", cfg.Metrics.PushgatewayURL)
}
