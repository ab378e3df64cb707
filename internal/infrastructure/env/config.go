package env

import (
	"fmt"
	"strings"
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/go-playground/validator/v10"
)

const (
	KeyBrowser        = "HARNESS_BROWSER"
	KeyDriver         = "HARNESS_DRIVER"
	KeyRemoteURL      = "HARNESS_REMOTE_URL"
	KeyTimeoutSeconds = "HARNESS_TIMEOUT_SECONDS"
	KeyPollIntervalMS = "HARNESS_POLL_INTERVAL_MS"
	KeyHeadless       = "HARNESS_HEADLESS"
	KeyDownloadDir    = "HARNESS_DOWNLOAD_DIR"
	KeyDriverPort     = "HARNESS_DRIVER_PORT"
	KeyLogLevel       = "HARNESS_LOG_LEVEL"
	KeyLogOutput      = "HARNESS_LOG_OUTPUT"
	KeyFaillogDir     = "HARNESS_FAILLOG_DIR"
)

// Config is everything the harness reads from the environment.
type Config struct {
	Browser      entity.BrowserType `validate:"oneof=chrome firefox"`
	Driver       entity.DriverType  `validate:"oneof=local remote cdp"`
	RemoteURL    string             `validate:"required_if=Driver remote,omitempty,url"`
	Timeout      time.Duration      `validate:"gt=0"`
	PollInterval time.Duration      `validate:"gt=0,ltefield=Timeout"`
	Headless     bool
	DownloadDir  string
	DriverPort   int    `validate:"min=1,max=65535"`
	LogLevel     string `validate:"oneof=debug info warn error"`
	LogOutput    string `validate:"oneof=stdout stderr file"`
	FaillogDir   string
}

func DefaultConfig() Config {
	return Config{
		Browser:      entity.BrowserChrome,
		Driver:       entity.DriverCDP,
		Timeout:      10 * time.Second,
		PollInterval: 500 * time.Millisecond,
		Headless:     true,
		DriverPort:   9515,
		LogLevel:     "info",
		LogOutput:    "stderr",
		FaillogDir:   "faillog",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig overlays the environment on DefaultConfig and validates the result.
func LoadConfig(src output.ConfigPort) (Config, error) {
	cfg := DefaultConfig()

	if v := src.Get(KeyBrowser); v != "" {
		cfg.Browser = entity.BrowserType(strings.ToLower(v))
	}
	if v := src.Get(KeyDriver); v != "" {
		cfg.Driver = entity.DriverType(strings.ToLower(v))
	}
	cfg.RemoteURL = src.Get(KeyRemoteURL)
	cfg.Timeout = time.Duration(src.GetInt(KeyTimeoutSeconds, int(cfg.Timeout/time.Second))) * time.Second
	cfg.PollInterval = time.Duration(src.GetInt(KeyPollIntervalMS, int(cfg.PollInterval/time.Millisecond))) * time.Millisecond
	cfg.Headless = src.GetBool(KeyHeadless, cfg.Headless)
	cfg.DownloadDir = src.Get(KeyDownloadDir)
	cfg.DriverPort = src.GetInt(KeyDriverPort, cfg.DriverPort)
	if v := src.Get(KeyLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := src.Get(KeyLogOutput); v != "" {
		cfg.LogOutput = strings.ToLower(v)
	}
	if v := src.Get(KeyFaillogDir); v != "" {
		cfg.FaillogDir = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return failure.New(failure.KindConfiguration, "config", fmt.Errorf("invalid configuration: %w", err))
	}
	return nil
}
