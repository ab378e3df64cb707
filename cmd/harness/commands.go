package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/di"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/infrastructure/env"
	"browser-harness/internal/usecase/query"

	"github.com/urfave/cli/v2"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "browser",
			Usage: "chrome or firefox, overrides " + env.KeyBrowser,
		},
		&cli.StringFlag{
			Name:  "driver",
			Usage: "cdp, local or remote, overrides " + env.KeyDriver,
		},
		&cli.BoolFlag{
			Name:  "headful",
			Usage: "show the browser window",
		},
	}
}

func FindFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Usage:    "page to open",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "by",
			Usage: "locator kind: id, name, class, css, tag, xpath, link, partial-link",
			Value: "id",
		},
		&cli.StringFlag{
			Name:     "value",
			Usage:    "locator value",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "exact number of valid elements to wait for, -1 for any",
			Value: query.AnyCount,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait, defaults to " + env.KeyTimeoutSeconds,
		},
		&cli.BoolFlag{
			Name:  "skip-visibility",
			Usage: "accept hidden elements",
		},
		&cli.BoolFlag{
			Name:  "skip-enabled",
			Usage: "accept disabled elements",
		},
		&cli.BoolFlag{
			Name:  "no-wait",
			Usage: "fail at once when nothing matches",
		},
	}
}

// loadConfig reads the environment and applies global flag overrides.
func loadConfig(c *cli.Context) (env.Config, error) {
	es, err := env.NewEnvService()
	if err != nil {
		return env.Config{}, err
	}
	cfg, err := env.LoadConfig(es)
	if err != nil {
		return env.Config{}, err
	}
	if v := c.String("browser"); v != "" {
		cfg.Browser = entity.BrowserType(strings.ToLower(v))
	}
	if v := c.String("driver"); v != "" {
		cfg.Driver = entity.DriverType(strings.ToLower(v))
	}
	if c.Bool("headful") {
		cfg.Headless = false
	}
	return cfg, cfg.Validate()
}

// Driver makes sure the driver binary for the configured browser is cached.
func Driver(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	container, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	path, err := container.Drivers.EnsureDriverPath(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

// Find opens --url and runs one element query against it.
func Find(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	kind, err := entity.ParseLocatorKind(c.String("by"))
	if err != nil {
		return err
	}
	locator, err := entity.NewLocator(kind, c.String("value"))
	if err != nil {
		return err
	}
	opts, err := findOptions(c)
	if err != nil {
		return err
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	browser, err := container.OpenBrowser(c.Context)
	if err != nil {
		return err
	}
	elapsed, err := browser.Navigate(c.Context, c.String("url"))
	if err != nil {
		return err
	}
	container.Logger.Info("page loaded", "url", c.String("url"), "duration_ms", elapsed.Milliseconds())

	q, err := container.Query(locator, opts...)
	if err != nil {
		return err
	}
	els, err := q.Elements()
	if err != nil {
		var te *query.TimeoutError
		if errors.As(err, &te) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if dir, derr := container.Dump(ctx, err); dir != "" {
				fmt.Fprintf(c.App.ErrWriter, "page state written to %s\n", dir)
			} else if derr != nil {
				container.Logger.Error("failure dump failed", "error", derr)
			}
		}
		return cli.Exit(err.Error(), 1)
	}
	return printElements(c.App.Writer, q, els)
}

func findOptions(c *cli.Context) ([]query.Option, error) {
	var opts []query.Option
	if c.IsSet("count") {
		if err := query.ValidateCount(c.Int("count")); err != nil {
			return nil, err
		}
		opts = append(opts, query.ExpectCount(c.Int("count")))
	}
	if d := c.Duration("timeout"); d > 0 {
		opts = append(opts, query.WithTimeout(d))
	}
	if c.Bool("skip-visibility") {
		opts = append(opts, query.SkipVisibility())
	}
	if c.Bool("skip-enabled") {
		opts = append(opts, query.SkipEnabledCheck())
	}
	if c.Bool("no-wait") {
		opts = append(opts, query.SkipWait())
	}
	return opts, nil
}

func printElements(w io.Writer, q *query.Query, els []output.Element) error {
	fmt.Fprintf(w, "%s: %d element(s)\n", q, len(els))
	for i, el := range els {
		tag, err := el.TagName()
		if err != nil {
			return err
		}
		text, err := el.Text()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%3d  <%s> %q\n", i, tag, strings.TrimSpace(text))
	}
	return nil
}
