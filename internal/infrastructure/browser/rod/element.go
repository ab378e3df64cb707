package rod

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Element = (*Element)(nil)

type Element struct {
	el *rod.Element
}

func (e *Element) Enabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, classify("enabled", err)
	}
	return !disabled.Bool(), nil
}

func (e *Element) Visible() (bool, error) {
	v, err := e.el.Visible()
	if err != nil {
		return false, classify("visible", err)
	}
	return v, nil
}

func (e *Element) Attribute(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, classify("attribute", err)
	}
	return pointerToString(v), v != nil, nil
}

func (e *Element) Text() (string, error) {
	t, err := e.el.Text()
	if err != nil {
		return "", classify("text", err)
	}
	return t, nil
}

func (e *Element) TagName() (string, error) {
	tag, err := e.el.Property("tagName")
	if err != nil {
		return "", classify("tag name", err)
	}
	return strings.ToLower(tag.Str()), nil
}

func (e *Element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classify("click", err)
	}
	return nil
}

func (e *Element) SendKeys(text string) error {
	if err := e.el.Input(text); err != nil {
		return classify("send keys", err)
	}
	return nil
}

func (e *Element) Clear() error {
	if err := e.el.SelectAllText(); err != nil {
		return classify("clear", err)
	}
	if err := e.el.Input(""); err != nil {
		return classify("clear", err)
	}
	return nil
}

// toSelector maps a locator onto a CSS selector, or an XPath expression when
// xpath is true.
func toSelector(l entity.Locator) (selector string, xpath bool, err error) {
	v := l.Value()
	if strings.TrimSpace(v) == "" {
		return "", false, failure.Newf(failure.KindInvalidSelector, "find", "empty value for %s", l.Kind())
	}
	switch l.Kind() {
	case entity.LocatorID:
		return fmt.Sprintf("[id=%s]", strconv.Quote(v)), false, nil
	case entity.LocatorName:
		return fmt.Sprintf("[name=%s]", strconv.Quote(v)), false, nil
	case entity.LocatorClassName:
		if strings.ContainsAny(v, " \t") {
			return "", false, failure.Newf(failure.KindInvalidSelector, "find", "compound class names are not supported: %q", v)
		}
		return "." + v, false, nil
	case entity.LocatorCSSSelector, entity.LocatorTagName:
		return v, false, nil
	case entity.LocatorXPath:
		return v, true, nil
	case entity.LocatorLinkText:
		return fmt.Sprintf("//a[normalize-space(.)=%s]", xpathLiteral(v)), true, nil
	case entity.LocatorPartialLinkText:
		return fmt.Sprintf("//a[contains(normalize-space(.),%s)]", xpathLiteral(v)), true, nil
	}
	return "", false, failure.Newf(failure.KindInvalidSelector, "find", "unknown locator kind %s", l.Kind())
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(quoted, `, '"', `) + ")"
}

func classify(op string, err error) error {
	var (
		notFound *rod.ElementNotFoundError
		objGone  *rod.ObjectNotFoundError
		cdpErr   *cdp.Error
		kind     = failure.KindDriver
	)
	switch {
	case errors.As(err, &notFound):
		kind = failure.KindElementNotFound
	case errors.As(err, &objGone):
		kind = failure.KindStaleElement
	case errors.As(err, &cdpErr):
		msg := strings.ToLower(cdpErr.Message + " " + cdpErr.Data)
		switch {
		case strings.Contains(msg, "querying") || strings.Contains(msg, "not a valid"):
			kind = failure.KindInvalidSelector
		case strings.Contains(msg, "no node") || strings.Contains(msg, "could not find node"):
			kind = failure.KindStaleElement
		}
	}
	return failure.New(kind, op, err)
}

func pointerToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
