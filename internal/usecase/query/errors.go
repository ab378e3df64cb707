package query

import (
	"fmt"
	"time"

	"browser-harness/internal/domain/entity"
)

// TimeoutError is returned when the expected number of valid elements did
// not show up in time. It wraps the underlying *wait.TimeoutError.
type TimeoutError struct {
	Locator entity.Locator
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("element query timed out after %g seconds: find by %s with value %q",
		e.Timeout.Seconds(), e.Locator.Kind(), e.Locator.Value())
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
