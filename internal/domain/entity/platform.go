package entity

import (
	"runtime"

	"browser-harness/internal/domain/failure"
)

type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "darwin"
	PlatformLinux   Platform = "linux"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformWindows, PlatformMacOS, PlatformLinux:
		return true
	}
	return false
}

// ParsePlatform maps a GOOS value onto a supported platform.
func ParsePlatform(goos string) (Platform, error) {
	p := Platform(goos)
	if !p.Valid() {
		return "", failure.Newf(failure.KindUnsupported, "platform", "unsupported operating system %q", goos)
	}
	return p, nil
}

func CurrentPlatform() (Platform, error) {
	return ParsePlatform(runtime.GOOS)
}

type BrowserType string

const (
	BrowserChrome  BrowserType = "chrome"
	BrowserFirefox BrowserType = "firefox"
)

func (b BrowserType) Valid() bool {
	return b == BrowserChrome || b == BrowserFirefox
}

// DriverType selects how a browser session is obtained.
type DriverType string

const (
	// DriverLocal downloads a driver binary and runs it as a WebDriver service.
	DriverLocal DriverType = "local"
	// DriverRemote talks WebDriver to an already running endpoint, e.g. a container.
	DriverRemote DriverType = "remote"
	// DriverCDP drives the browser over the DevTools protocol, no driver binary needed.
	DriverCDP DriverType = "cdp"
)

func (d DriverType) Valid() bool {
	switch d {
	case DriverLocal, DriverRemote, DriverCDP:
		return true
	}
	return false
}
