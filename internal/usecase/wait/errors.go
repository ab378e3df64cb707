package wait

import (
	"fmt"
	"time"
)

type TimeoutError struct {
	Context any
	Timeout time.Duration
	Last    error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %v waiting on %v", e.Timeout, e.Context)
	if e.Last != nil {
		msg += fmt.Sprintf(": last error: %v", e.Last)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Last
}
