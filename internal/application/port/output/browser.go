package output

import (
	"context"
	"time"

	"browser-harness/internal/domain/entity"
)

// BrowserPort is a live browser session that can also be queried for elements.
type BrowserPort interface {
	ElementProvider

	Navigate(ctx context.Context, url string) (time.Duration, error)
	CurrentURL(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Browser() entity.BrowserType

	Close()
}
