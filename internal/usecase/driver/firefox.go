package driver

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

const (
	GeckoLatestURL    = "https://github.com/mozilla/geckodriver/releases/latest"
	GeckoDownloadBase = "https://github.com/mozilla/geckodriver/releases/download"
)

var _ output.DriverResolver = (*FirefoxResolver)(nil)

type FirefoxResolver struct {
	platform     entity.Platform
	remote       output.VersionService
	latestURL    string
	downloadBase string
	logger       output.LoggerPort

	mu      sync.Mutex
	version string
}

func NewFirefoxResolver(platform entity.Platform, remote output.VersionService, opts ...ResolverOption) *FirefoxResolver {
	o := resolverOptions{latestURL: GeckoLatestURL, baseURL: GeckoDownloadBase}
	for _, opt := range opts {
		opt(&o)
	}
	return &FirefoxResolver{
		platform:     platform,
		remote:       remote,
		latestURL:    o.latestURL,
		downloadBase: strings.TrimSuffix(o.baseURL, "/"),
		logger:       o.logger,
	}
}

func (r *FirefoxResolver) Browser() entity.BrowserType { return entity.BrowserFirefox }

func (r *FirefoxResolver) BinaryName() string {
	if r.platform == entity.PlatformWindows {
		return "geckodriver.exe"
	}
	return "geckodriver"
}

func (r *FirefoxResolver) ArchiveName(version string) string {
	switch r.platform {
	case entity.PlatformWindows:
		return fmt.Sprintf("geckodriver-%s-win64.zip", version)
	case entity.PlatformMacOS:
		return fmt.Sprintf("geckodriver-%s-macos.tar.gz", version)
	default:
		return fmt.Sprintf("geckodriver-%s-linux64.tar.gz", version)
	}
}

// Version is the tag the "latest release" page redirects to.
func (r *FirefoxResolver) Version(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version != "" {
		return r.version, nil
	}

	final, err := r.remote.FinalRedirectURL(ctx, r.latestURL)
	if err != nil {
		return "", fmt.Errorf("resolve latest geckodriver: %w", err)
	}
	u, err := url.Parse(final)
	if err != nil {
		return "", failure.New(failure.KindTransport, "firefox version", err)
	}
	version := path.Base(strings.TrimSuffix(u.Path, "/"))
	if !validVersion(version) {
		return "", failure.Newf(failure.KindTransport, "firefox version", "no release tag in %s", final)
	}

	if r.logger != nil {
		r.logger.Debug("geckodriver version resolved", "url", final, "version", version)
	}
	r.version = version
	return version, nil
}

func (r *FirefoxResolver) DownloadURL(ctx context.Context) (string, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", r.downloadBase, version, r.ArchiveName(version)), nil
}
