package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"

	"howett.net/plist"
)

const DefaultChromePlist = "/Applications/Google Chrome.app/Contents/Info.plist"

var _ output.VersionInspector = (*Inspector)(nil)

// Inspector reads the installed browser version from the registry on Windows
// and from the app bundle on macOS. Anything else yields "", and so does a
// registry or bundle that cannot be read.
type Inspector struct {
	platform  entity.Platform
	plistPath string
	registry  func() (string, error)
	logger    output.LoggerPort
}

type Option func(*Inspector)

func WithPlistPath(path string) Option {
	return func(i *Inspector) { i.plistPath = path }
}

func WithLogger(l output.LoggerPort) Option {
	return func(i *Inspector) { i.logger = l }
}

func withRegistry(fn func() (string, error)) Option {
	return func(i *Inspector) { i.registry = fn }
}

func New(platform entity.Platform, opts ...Option) *Inspector {
	i := &Inspector{
		platform:  platform,
		plistPath: DefaultChromePlist,
		registry:  chromeRegistryVersion,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Inspector) BrowserVersion(_ context.Context, browser entity.BrowserType) (string, error) {
	if browser != entity.BrowserChrome {
		return "", nil
	}
	var (
		v   string
		err error
	)
	switch i.platform {
	case entity.PlatformWindows:
		v, err = i.registry()
	case entity.PlatformMacOS:
		v, err = plistVersion(i.plistPath)
	default:
		return "", nil
	}
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("chrome version detection failed", "platform", string(i.platform), "error", err)
		}
		return "", nil
	}
	return strings.TrimSpace(v), nil
}

type bundleInfo struct {
	ShortVersion string `plist:"CFBundleShortVersionString"`
}

func plistVersion(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var info bundleInfo
	if err := plist.NewDecoder(f).Decode(&info); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return strings.TrimSpace(info.ShortVersion), nil
}
