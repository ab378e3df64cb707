package selenium

import (
	"strings"

	"browser-harness/internal/application/port/output"

	"github.com/tebeka/selenium"
)

var _ output.Element = (*Element)(nil)

type Element struct {
	we selenium.WebElement
}

func (e *Element) Enabled() (bool, error) {
	ok, err := e.we.IsEnabled()
	if err != nil {
		return false, classify("enabled", err)
	}
	return ok, nil
}

func (e *Element) Visible() (bool, error) {
	ok, err := e.we.IsDisplayed()
	if err != nil {
		return false, classify("visible", err)
	}
	return ok, nil
}

// Attribute reports ok=false when the attribute is absent; the client
// surfaces that as a nil return value.
func (e *Element) Attribute(name string) (string, bool, error) {
	v, err := e.we.GetAttribute(name)
	if err != nil {
		if strings.Contains(err.Error(), "nil return value") {
			return "", false, nil
		}
		return "", false, classify("attribute", err)
	}
	return v, true, nil
}

func (e *Element) Text() (string, error) {
	t, err := e.we.Text()
	if err != nil {
		return "", classify("text", err)
	}
	return t, nil
}

func (e *Element) TagName() (string, error) {
	t, err := e.we.TagName()
	if err != nil {
		return "", classify("tag name", err)
	}
	return strings.ToLower(t), nil
}

func (e *Element) Click() error {
	if err := e.we.Click(); err != nil {
		return classify("click", err)
	}
	return nil
}

func (e *Element) SendKeys(text string) error {
	if err := e.we.SendKeys(text); err != nil {
		return classify("send keys", err)
	}
	return nil
}

func (e *Element) Clear() error {
	if err := e.we.Clear(); err != nil {
		return classify("clear", err)
	}
	return nil
}
