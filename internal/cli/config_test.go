package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pinlog/internal/pin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSlackToken, EnvChannel, EnvStoreDriver, EnvStoreDSN} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: C123
store:
  driver: sqlite
  dsn: ./pins.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.Equal(t, "C123", cfg.Slack.Channel)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "./pins.db", cfg.Store.DSN)
}

func TestLoadConfig_DefaultsToSQLite(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: C123
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "pinlog.db", cfg.Store.DSN)
}

func TestLoadConfig_MissingTokenIsConfigurationError(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  channel: C123
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, pin.IsConfigurationError(err))
}

func TestLoadConfig_UnknownDriverRejected(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: C123
store:
  driver: mysql
  dsn: whatever
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, pin.IsConfigurationError(err))
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: from-file
  channel: C123
`)
	t.Setenv(EnvSlackToken, "from-env")
	t.Setenv(EnvChannel, "C999")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Slack.Token)
	assert.Equal(t, "C999", cfg.Slack.Channel)
}

func TestLoadConfig_EnvOnlyWithMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(EnvSlackToken, "xoxb-env")
	t.Setenv(EnvChannel, "C42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "xoxb-env", cfg.Slack.Token)
	assert.Equal(t, "C42", cfg.Slack.Channel)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, "slack: [not: valid")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, pin.IsConfigurationError(err))
}
