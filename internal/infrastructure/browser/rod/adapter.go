package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"sync"
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

var (
	ErrBrowserNotConnected = errors.New("browser is not connected")
	ErrInvalidURL          = errors.New("invalid url")
)

const (
	defaultSlowMotion  = 0
	defaultTimeout     = 10 * time.Second
	maxScreenshotWidth = 1024
)

type BrowserAdapter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// Bin points at a specific Chromium build; empty lets rod find or fetch one.
	Bin                     string
	DisableSecurityFeatures bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.DisableSecurityFeatures {
		l = l.Set("disable-web-security").
			Set("allow-running-insecure-content")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if ctx != nil {
		browser = browser.Context(ctx)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) Browser() entity.BrowserType { return entity.BrowserChrome }

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) currentPage() (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.page == nil {
		return nil, ErrBrowserNotConnected
	}
	return b.page, nil
}

// Navigate loads url and returns how long it took for the load event to fire.
func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) (time.Duration, error) {
	page, err := b.currentPage()
	if err != nil {
		return 0, err
	}
	if err := validateURL(rawURL); err != nil {
		return 0, err
	}

	start := time.Now()
	p := page.Context(ctx).Timeout(b.timeout)
	if err := p.Navigate(rawURL); err != nil {
		return 0, failure.New(failure.KindDriver, "navigate", err)
	}
	if err := p.WaitLoad(); err != nil {
		return 0, failure.New(failure.KindDriver, "navigate", err)
	}
	return time.Since(start), nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	switch u.Scheme {
	case "http", "https", "file", "about", "data":
		return nil
	}
	return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
}

func (b *BrowserAdapter) CurrentURL(ctx context.Context) (string, error) {
	page, err := b.currentPage()
	if err != nil {
		return "", err
	}
	info, err := page.Context(ctx).Info()
	if err != nil {
		return "", failure.New(failure.KindDriver, "current url", err)
	}
	return info.URL, nil
}

func (b *BrowserAdapter) PageSource(ctx context.Context) (string, error) {
	page, err := b.currentPage()
	if err != nil {
		return "", err
	}
	html, err := page.Context(ctx).Timeout(b.timeout).HTML()
	if err != nil {
		return "", failure.New(failure.KindDriver, "page source", err)
	}
	return html, nil
}

func (b *BrowserAdapter) Elements(locator entity.Locator) ([]output.Element, error) {
	page, err := b.currentPage()
	if err != nil {
		return nil, failure.New(failure.KindDriver, "find", err)
	}
	selector, xpath, err := toSelector(locator)
	if err != nil {
		return nil, err
	}

	p := page.Timeout(b.timeout)
	var els rod.Elements
	if xpath {
		els, err = p.ElementsX(selector)
	} else {
		els, err = p.Elements(selector)
	}
	if err != nil {
		return nil, classify("find", err)
	}
	if len(els) == 0 {
		return nil, failure.Newf(failure.KindElementNotFound, "find", "no element matches %s", locator)
	}

	out := make([]output.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out, nil
}

func (b *BrowserAdapter) NotFoundKind() failure.Kind {
	return failure.KindElementNotFound
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.currentPage()
	if err != nil {
		return nil, err
	}
	imgBytes, err := page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shrink(imgBytes)
}

// shrink re-encodes a screenshot, capping its width.
func shrink(imgBytes []byte) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
