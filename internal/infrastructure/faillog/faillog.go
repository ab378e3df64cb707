// Package faillog writes what the page looked like when a query gave up.
package faillog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browser-harness/internal/domain/entity"
)

const (
	ScreenshotFile = "screenshot.jpg"
	DOMFile        = "dom.html"
	ErrorFile      = "error.txt"
)

// Page is the part of a browser session a dump reads from.
type Page interface {
	CurrentURL(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
}

var now = time.Now

// Dump creates a fresh directory under dir and writes the screenshot, the
// cleaned DOM and the cause into it. Artifacts that cannot be captured are
// skipped; their errors are joined into the returned error alongside the
// directory path.
func Dump(ctx context.Context, dir string, page Page, cause error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create faillog dir: %w", err)
	}
	out, err := os.MkdirTemp(dir, now().Format("20060102-150405")+"-")
	if err != nil {
		return "", fmt.Errorf("create faillog dir: %w", err)
	}

	var errs []error
	var report strings.Builder
	if cause != nil {
		fmt.Fprintf(&report, "error: %v\n", cause)
	}

	if u, err := page.CurrentURL(ctx); err == nil {
		fmt.Fprintf(&report, "url: %s\n", u)
	} else {
		errs = append(errs, fmt.Errorf("current url: %w", err))
	}

	if shot, err := page.Screenshot(ctx); err == nil {
		errs = appendErr(errs, os.WriteFile(filepath.Join(out, ScreenshotFile), shot.Data, 0o644))
	} else {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	}

	if src, err := page.PageSource(ctx); err == nil {
		cleaned, cerr := CleanHTML(src, nil)
		if cerr != nil {
			fmt.Fprintf(&report, "dom: kept raw source (%v)\n", cerr)
		}
		errs = appendErr(errs, os.WriteFile(filepath.Join(out, DOMFile), []byte(cleaned), 0o644))
	} else {
		errs = append(errs, fmt.Errorf("page source: %w", err))
	}

	errs = appendErr(errs, os.WriteFile(filepath.Join(out, ErrorFile), []byte(report.String()), 0o644))
	return out, errors.Join(errs...)
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
