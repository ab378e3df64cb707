package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

const ChromeBaseURL = "https://chromedriver.storage.googleapis.com"

var _ output.DriverResolver = (*ChromeResolver)(nil)

type ChromeResolver struct {
	platform  entity.Platform
	inspector output.VersionInspector
	remote    output.VersionService
	baseURL   string
	logger    output.LoggerPort

	mu      sync.Mutex
	version string
}

func NewChromeResolver(platform entity.Platform, inspector output.VersionInspector, remote output.VersionService, opts ...ResolverOption) *ChromeResolver {
	o := resolverOptions{baseURL: ChromeBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	return &ChromeResolver{
		platform:  platform,
		inspector: inspector,
		remote:    remote,
		baseURL:   strings.TrimSuffix(o.baseURL, "/"),
		logger:    o.logger,
	}
}

func (r *ChromeResolver) Browser() entity.BrowserType { return entity.BrowserChrome }

func (r *ChromeResolver) BinaryName() string {
	if r.platform == entity.PlatformWindows {
		return "chromedriver.exe"
	}
	return "chromedriver"
}

func (r *ChromeResolver) ArchiveName(string) string {
	switch r.platform {
	case entity.PlatformWindows:
		return "chromedriver_win32.zip"
	case entity.PlatformMacOS:
		return "chromedriver_mac64.zip"
	default:
		return "chromedriver_linux64.zip"
	}
}

// Version prefers a driver build matching the installed browser, then the
// latest build for its major version, then the latest release overall.
// Only a successful lookup is cached.
func (r *ChromeResolver) Version(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version != "" {
		return r.version, nil
	}

	local, err := r.inspector.BrowserVersion(ctx, entity.BrowserChrome)
	if err != nil || !validVersion(local) {
		if err != nil || local != "" {
			r.warn("local chrome version unavailable, using latest release", "local", local, "error", err)
		}
		local = ""
	}

	var version string
	if local == "" {
		version, err = r.fetch(ctx, r.baseURL+"/LATEST_RELEASE")
	} else {
		version, err = r.matching(ctx, local)
	}
	if err != nil {
		return "", err
	}

	r.log("chromedriver version resolved", "local", local, "version", version)
	r.version = version
	return version, nil
}

func (r *ChromeResolver) matching(ctx context.Context, local string) (string, error) {
	probe := fmt.Sprintf("%s/%s/%s", r.baseURL, local, r.ArchiveName(local))
	exists, err := r.remote.ProbeExists(ctx, probe)
	if err != nil {
		return "", fmt.Errorf("probe chromedriver %s: %w", local, err)
	}
	if exists {
		return local, nil
	}
	major, _, _ := strings.Cut(local, ".")
	return r.fetch(ctx, fmt.Sprintf("%s/LATEST_RELEASE_%s", r.baseURL, major))
}

func (r *ChromeResolver) fetch(ctx context.Context, url string) (string, error) {
	body, err := r.remote.FetchBody(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	version := strings.TrimSpace(body)
	if version == "" {
		return "", failure.Newf(failure.KindTransport, "chrome version", "empty response from %s", url)
	}
	if !validVersion(version) {
		return "", failure.Newf(failure.KindTransport, "chrome version", "malformed version %q from %s", truncate(version, 64), url)
	}
	return version, nil
}

func (r *ChromeResolver) DownloadURL(ctx context.Context) (string, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", r.baseURL, version, r.ArchiveName(version)), nil
}

func (r *ChromeResolver) log(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *ChromeResolver) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
