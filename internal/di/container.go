package di

import (
	"context"
	"errors"
	"fmt"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
	"browser-harness/internal/infrastructure/browser/rod"
	"browser-harness/internal/infrastructure/browser/selenium"
	"browser-harness/internal/infrastructure/env"
	"browser-harness/internal/infrastructure/faillog"
	"browser-harness/internal/infrastructure/files"
	"browser-harness/internal/infrastructure/inspect"
	"browser-harness/internal/infrastructure/logger"
	"browser-harness/internal/infrastructure/metrics"
	"browser-harness/internal/infrastructure/remote"
	"browser-harness/internal/usecase/driver"
	"browser-harness/internal/usecase/query"

	"github.com/prometheus/client_golang/prometheus"
)

type Container struct {
	Config   env.Config
	Logger   output.LoggerPort
	Registry *prometheus.Registry
	Observer output.QueryObserver
	Drivers  *driver.Service

	browser  output.BrowserPort
	provider output.ElementProvider
}

// NewContainer wires everything except the browser session, which is opened
// on demand by OpenBrowser.
func NewContainer(cfg env.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Output = cfg.LogOutput
	log, err := logger.NewZapAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	queryMetrics, err := metrics.NewObserver(metrics.DefaultConfig(), reg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	drivers, err := newDriverService(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	return &Container{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Observer: newQueryObserver(log, queryMetrics),
		Drivers:  drivers,
	}, nil
}

// newQueryObserver fans query records out to the log and the metrics.
func newQueryObserver(log output.LoggerPort, m output.QueryObserver) output.Observers {
	return output.Observers{logger.NewQueryLogger(log), m}
}

func newDriverService(cfg env.Config, log output.LoggerPort) (*driver.Service, error) {
	platform, err := entity.CurrentPlatform()
	if err != nil {
		return nil, err
	}

	remoteCfg := remote.DefaultConfig()
	remoteCfg.Logger = log.Named("remote")
	client := remote.NewClient(remoteCfg)

	resolver, err := driver.NewResolver(cfg.Browser, platform, inspect.New(platform, inspect.WithLogger(log.Named("inspect"))), client,
		driver.WithLogger(log.Named("resolver")))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver resolver: %w", err)
	}

	fs := files.NewService(files.NewRunner(), log.Named("files"))
	svc, err := driver.NewService(driver.ServiceConfig{Root: cfg.DownloadDir, Platform: platform}, resolver, client, fs, log.Named("driver"))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver service: %w", err)
	}
	return svc, nil
}

// OpenBrowser starts the session selected by Config.Driver. Calling it again
// returns the already open session.
func (c *Container) OpenBrowser(ctx context.Context) (output.BrowserPort, error) {
	if c.browser != nil {
		return c.browser, nil
	}

	var (
		browser output.BrowserPort
		err     error
	)
	switch c.Config.Driver {
	case entity.DriverCDP:
		if c.Config.Browser != entity.BrowserChrome {
			return nil, failure.Newf(failure.KindUnsupported, "open browser", "the cdp driver only supports chrome, got %q", c.Config.Browser)
		}
		rodCfg := rod.DefaultConfig()
		rodCfg.Headless = c.Config.Headless
		rodCfg.Timeout = c.Config.Timeout
		browser, err = rod.NewBrowserAdapter(ctx, rodCfg)
	case entity.DriverLocal:
		browser, err = c.openLocal(ctx)
	case entity.DriverRemote:
		browser, err = selenium.Connect(c.Config.Browser, c.Config.RemoteURL, c.Config.Headless, c.Logger)
	default:
		err = failure.Newf(failure.KindConfiguration, "open browser", "unknown driver %q", c.Config.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open browser: %w", err)
	}

	c.browser = browser
	c.provider = logger.WrapProvider(browser, c.Logger.Named("element"))
	c.Logger.Info("browser ready", "browser", string(browser.Browser()), "driver", string(c.Config.Driver))
	return browser, nil
}

func (c *Container) openLocal(ctx context.Context) (output.BrowserPort, error) {
	path, err := c.Drivers.EnsureDriverPath(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := selenium.StartService(c.Config.Browser, path, c.Config.DriverPort)
	if err != nil {
		return nil, err
	}
	b, err := selenium.Connect(c.Config.Browser, svc.URL(), c.Config.Headless, c.Logger)
	if err != nil {
		return nil, errors.Join(err, svc.Stop())
	}
	b.Own(svc)
	return b, nil
}

// Query builds an element query against the open browser using the
// configured timeout and poll interval. opts are applied after those.
func (c *Container) Query(locator entity.Locator, opts ...query.Option) (*query.Query, error) {
	if c.provider == nil {
		return nil, failure.Newf(failure.KindConfiguration, "query", "browser is not open")
	}
	base := []query.Option{
		query.WithPollInterval(c.Config.PollInterval),
		query.WithObserver(c.Observer),
	}
	return query.New(locator, c.provider, c.Config.Timeout, append(base, opts...)...)
}

// Dump writes the current page state under Config.FaillogDir.
func (c *Container) Dump(ctx context.Context, cause error) (string, error) {
	if c.browser == nil {
		return "", failure.Newf(failure.KindConfiguration, "dump", "browser is not open")
	}
	dir, err := faillog.Dump(ctx, c.Config.FaillogDir, c.browser, cause)
	if dir != "" {
		c.Logger.Warn("failure dump written", "dir", dir)
	}
	return dir, err
}

func (c *Container) Close() {
	if c.browser != nil {
		c.browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
