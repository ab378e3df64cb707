package env

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func (m mapConfig) GetBool(key string, def bool) bool {
	switch m[key] {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

func (m mapConfig) GetInt(key string, def int) int {
	n, err := strconv.Atoi(m[key])
	if err != nil {
		return def
	}
	return n
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(mapConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, entity.BrowserChrome, cfg.Browser)
	assert.Equal(t, entity.DriverCDP, cfg.Driver)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(mapConfig{
		KeyBrowser:        "Firefox",
		KeyDriver:         "remote",
		KeyRemoteURL:      "http://grid:4444/wd/hub",
		KeyTimeoutSeconds: "30",
		KeyPollIntervalMS: "250",
		KeyHeadless:       "false",
		KeyDownloadDir:    "/var/cache/drivers",
		KeyDriverPort:     "4445",
		KeyLogLevel:       "DEBUG",
		KeyLogOutput:      "file",
		KeyFaillogDir:     "/tmp/fails",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BrowserFirefox, cfg.Browser)
	assert.Equal(t, entity.DriverRemote, cfg.Driver)
	assert.Equal(t, "http://grid:4444/wd/hub", cfg.RemoteURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "/var/cache/drivers", cfg.DownloadDir)
	assert.Equal(t, 4445, cfg.DriverPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.LogOutput)
	assert.Equal(t, "/tmp/fails", cfg.FaillogDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]mapConfig{
		"unknown browser":      {KeyBrowser: "safari"},
		"unknown driver":       {KeyDriver: "appium"},
		"remote without url":   {KeyDriver: "remote"},
		"malformed remote url": {KeyDriver: "remote", KeyRemoteURL: "not a url"},
		"zero timeout":         {KeyTimeoutSeconds: "0"},
		"poll above timeout":   {KeyTimeoutSeconds: "1", KeyPollIntervalMS: "5000"},
		"port out of range":    {KeyDriverPort: "70000"},
		"unknown log level":    {KeyLogLevel: "trace"},
		"unknown log output":   {KeyLogOutput: "syslog"},
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(src)
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindConfiguration))
		})
	}
}

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("HARNESS_X_BOOL", "true")
	t.Setenv("HARNESS_X_BAD_BOOL", "maybe")
	t.Setenv("HARNESS_X_INT", "42")
	t.Setenv("HARNESS_X_BAD_INT", "forty")

	e := &EnvService{}
	assert.True(t, e.GetBool("HARNESS_X_BOOL", false))
	assert.True(t, e.GetBool("HARNESS_X_BAD_BOOL", true))
	assert.False(t, e.GetBool("HARNESS_X_MISSING", false))
	assert.Equal(t, 42, e.GetInt("HARNESS_X_INT", 0))
	assert.Equal(t, 7, e.GetInt("HARNESS_X_BAD_INT", 7))
	assert.Equal(t, 7, e.GetInt("HARNESS_X_MISSING", 7))
}

func TestNewEnvService_LoadsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HARNESS_BROWSER=chrome\nHARNESS_LOG_LEVEL=warn\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("HARNESS_BROWSER=firefox\n"), 0o644))
	chdir(t, dir)
	t.Setenv("APP_ENV", "ci")
	t.Setenv(KeyBrowser, "")
	t.Setenv(KeyLogLevel, "")
	os.Unsetenv(KeyBrowser)
	os.Unsetenv(KeyLogLevel)

	e, err := NewEnvService()
	require.NoError(t, err)
	assert.Equal(t, []string{".env", ".env.ci"}, e.Loaded)
	assert.Equal(t, "firefox", e.Get(KeyBrowser))
	assert.Equal(t, "warn", e.Get(KeyLogLevel))
}

func TestNewEnvService_NoFiles(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "")

	e, err := NewEnvService()
	require.NoError(t, err)
	assert.Empty(t, e.Loaded)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
