package failure

import (
	"errors"
	"fmt"
)

// Kind tags a failure raised by an adapter so callers can decide which ones
// are worth retrying.
type Kind string

const (
	KindElementNotFound Kind = "element_not_found"
	KindStaleElement    Kind = "stale_element"
	KindInvalidSelector Kind = "invalid_selector"
	KindDriver          Kind = "driver"
	KindTransport       Kind = "transport"
	KindUnsupported     Kind = "unsupported"
	KindConfiguration   Kind = "configuration"
)

var kinds = []Kind{
	KindElementNotFound,
	KindStaleElement,
	KindInvalidSelector,
	KindDriver,
	KindTransport,
	KindUnsupported,
	KindConfiguration,
}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return string(e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in the chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
