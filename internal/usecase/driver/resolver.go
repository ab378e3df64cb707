package driver

import (
	"regexp"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

type resolverOptions struct {
	baseURL   string
	latestURL string
	logger    output.LoggerPort
}

type ResolverOption func(*resolverOptions)

// WithBaseURL overrides the storage root for chromedriver or the download
// root for geckodriver.
func WithBaseURL(u string) ResolverOption {
	return func(o *resolverOptions) { o.baseURL = u }
}

// WithLatestURL overrides the geckodriver "latest release" page.
func WithLatestURL(u string) ResolverOption {
	return func(o *resolverOptions) { o.latestURL = u }
}

func WithLogger(l output.LoggerPort) ResolverOption {
	return func(o *resolverOptions) { o.logger = l }
}

func NewResolver(browser entity.BrowserType, platform entity.Platform, inspector output.VersionInspector, remote output.VersionService, opts ...ResolverOption) (output.DriverResolver, error) {
	switch browser {
	case entity.BrowserChrome:
		return NewChromeResolver(platform, inspector, remote, opts...), nil
	case entity.BrowserFirefox:
		return NewFirefoxResolver(platform, remote, opts...), nil
	}
	return nil, failure.Newf(failure.KindUnsupported, "driver resolver", "browser %q has no driver resolver", browser)
}

var versionPattern = regexp.MustCompile(`^v?[0-9][0-9.]*$`)

// validVersion reports whether v is safe to use as a download path segment
// and a cache directory name.
func validVersion(v string) bool {
	return versionPattern.MatchString(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
