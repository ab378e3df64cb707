package selenium

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/disintegration/imaging"
	"github.com/tebeka/selenium"
)

var _ output.BrowserPort = (*Browser)(nil)

var ErrSessionClosed = errors.New("webdriver session is closed")

const maxScreenshotWidth = 1024

// Browser adapts a WebDriver session.
type Browser struct {
	mu      sync.Mutex
	wd      selenium.WebDriver
	browser entity.BrowserType
	service *Service
	closed  bool
}

func NewBrowser(wd selenium.WebDriver, browser entity.BrowserType) *Browser {
	return &Browser{wd: wd, browser: browser}
}

// Own ties the lifetime of svc to the session; Close stops it.
func (b *Browser) Own(svc *Service) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.service = svc
}

func (b *Browser) Browser() entity.BrowserType { return b.browser }

func (b *Browser) session() (selenium.WebDriver, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.wd == nil {
		return nil, ErrSessionClosed
	}
	return b.wd, nil
}

func (b *Browser) Navigate(ctx context.Context, url string) (time.Duration, error) {
	wd, err := b.session()
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	if err := wd.Get(url); err != nil {
		return 0, classify("navigate", err)
	}
	return time.Since(start), nil
}

func (b *Browser) CurrentURL(ctx context.Context) (string, error) {
	wd, err := b.session()
	if err != nil {
		return "", err
	}
	u, err := wd.CurrentURL()
	if err != nil {
		return "", classify("current url", err)
	}
	return u, nil
}

func (b *Browser) PageSource(ctx context.Context) (string, error) {
	wd, err := b.session()
	if err != nil {
		return "", err
	}
	src, err := wd.PageSource()
	if err != nil {
		return "", classify("page source", err)
	}
	return src, nil
}

func (b *Browser) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	wd, err := b.session()
	if err != nil {
		return nil, err
	}
	raw, err := wd.Screenshot()
	if err != nil {
		return nil, classify("screenshot", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(75)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *Browser) Elements(locator entity.Locator) ([]output.Element, error) {
	wd, err := b.session()
	if err != nil {
		return nil, failure.New(failure.KindDriver, "find", err)
	}
	by, err := toBy(locator.Kind())
	if err != nil {
		return nil, err
	}

	found, err := wd.FindElements(by, locator.Value())
	if err != nil {
		return nil, classify("find", err)
	}
	if len(found) == 0 {
		return nil, failure.Newf(failure.KindElementNotFound, "find", "no element matches %s", locator)
	}

	out := make([]output.Element, len(found))
	for i, we := range found {
		out[i] = &Element{we: we}
	}
	return out, nil
}

func (b *Browser) NotFoundKind() failure.Kind {
	return failure.KindElementNotFound
}

// Close quits the session and stops an owned driver service. It is safe to
// call more than once.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.wd != nil {
		_ = b.wd.Quit()
	}
	if b.service != nil {
		_ = b.service.Stop()
	}
}

func toBy(kind entity.LocatorKind) (string, error) {
	switch kind {
	case entity.LocatorID:
		return selenium.ByID, nil
	case entity.LocatorName:
		return selenium.ByName, nil
	case entity.LocatorClassName:
		return selenium.ByClassName, nil
	case entity.LocatorCSSSelector:
		return selenium.ByCSSSelector, nil
	case entity.LocatorTagName:
		return selenium.ByTagName, nil
	case entity.LocatorXPath:
		return selenium.ByXPATH, nil
	case entity.LocatorLinkText:
		return selenium.ByLinkText, nil
	case entity.LocatorPartialLinkText:
		return selenium.ByPartialLinkText, nil
	}
	return "", failure.Newf(failure.KindInvalidSelector, "find", "unknown locator kind %s", kind)
}

// classify maps W3C WebDriver error codes onto failure kinds.
func classify(op string, err error) error {
	code := ""
	var se *selenium.Error
	if errors.As(err, &se) {
		code = se.Err
	}
	if code == "" {
		code = err.Error()
	}
	code = strings.ToLower(code)

	kind := failure.KindDriver
	switch {
	case strings.Contains(code, "no such element"):
		kind = failure.KindElementNotFound
	case strings.Contains(code, "stale element reference"):
		kind = failure.KindStaleElement
	case strings.Contains(code, "invalid selector"):
		kind = failure.KindInvalidSelector
	}
	return failure.New(kind, op, err)
}
