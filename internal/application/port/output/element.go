package output

import (
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

type Element interface {
	Enabled() (bool, error)
	Visible() (bool, error)
	// Attribute reports ok=false when the attribute is absent.
	Attribute(name string) (value string, ok bool, err error)
	Text() (string, error)
	TagName() (string, error)
	Click() error
	SendKeys(text string) error
	Clear() error
}

// ElementProvider returns the current set of elements matching a locator.
// An empty page is reported as an error of NotFoundKind, not an empty slice.
type ElementProvider interface {
	Elements(locator entity.Locator) ([]Element, error)
	NotFoundKind() failure.Kind
}

// Unwrapper is implemented by decorators around an Element.
type Unwrapper interface {
	Unwrap() Element
}
