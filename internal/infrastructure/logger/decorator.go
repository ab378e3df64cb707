package logger

import (
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
)

var (
	_ output.ElementProvider = (*Provider)(nil)
	_ output.Element         = (*Element)(nil)
	_ output.Unwrapper       = (*Element)(nil)
)

// Provider hands out elements that log every interaction. The lookup itself
// is left to the query record.
type Provider struct {
	inner  output.ElementProvider
	logger output.LoggerPort
}

func WrapProvider(inner output.ElementProvider, l output.LoggerPort) *Provider {
	return &Provider{inner: inner, logger: l.Named("element")}
}

func (p *Provider) Elements(locator entity.Locator) ([]output.Element, error) {
	els, err := p.inner.Elements(locator)
	if err != nil {
		return nil, err
	}
	log := p.logger.WithField("locator", locator.String())
	out := make([]output.Element, len(els))
	for i, el := range els {
		out[i] = &Element{inner: el, logger: log}
	}
	return out, nil
}

func (p *Provider) NotFoundKind() failure.Kind {
	return p.inner.NotFoundKind()
}

type Element struct {
	inner  output.Element
	logger output.LoggerPort
}

func WrapElement(inner output.Element, l output.LoggerPort) *Element {
	return &Element{inner: inner, logger: l}
}

func (e *Element) Unwrap() output.Element { return e.inner }

func (e *Element) trace(op string, start time.Time, err error, args ...any) {
	args = append(args, "op", op, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		e.logger.Warn("element call failed", append(args, "error", err.Error())...)
		return
	}
	e.logger.Debug("element call", args...)
}

func (e *Element) Enabled() (bool, error) {
	start := time.Now()
	v, err := e.inner.Enabled()
	e.trace("enabled", start, err, "result", v)
	return v, err
}

func (e *Element) Visible() (bool, error) {
	start := time.Now()
	v, err := e.inner.Visible()
	e.trace("visible", start, err, "result", v)
	return v, err
}

func (e *Element) Attribute(name string) (string, bool, error) {
	start := time.Now()
	v, ok, err := e.inner.Attribute(name)
	e.trace("attribute", start, err, "name", name, "present", ok)
	return v, ok, err
}

func (e *Element) Text() (string, error) {
	start := time.Now()
	v, err := e.inner.Text()
	e.trace("text", start, err)
	return v, err
}

func (e *Element) TagName() (string, error) {
	start := time.Now()
	v, err := e.inner.TagName()
	e.trace("tag_name", start, err, "result", v)
	return v, err
}

func (e *Element) Click() error {
	start := time.Now()
	err := e.inner.Click()
	e.trace("click", start, err)
	return err
}

func (e *Element) SendKeys(text string) error {
	start := time.Now()
	err := e.inner.SendKeys(text)
	e.trace("send_keys", start, err, "length", len(text))
	return err
}

func (e *Element) Clear() error {
	start := time.Now()
	err := e.inner.Clear()
	e.trace("clear", start, err)
	return err
}
