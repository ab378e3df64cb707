package query

import (
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"
	"browser-harness/internal/usecase/wait"
)

// Query finds elements by locator and waits until the number of valid ones
// matches the expected count. Options are fixed once New returns.
type Query struct {
	locator  entity.Locator
	provider output.ElementProvider
	opts     Options
}

func New(locator entity.Locator, provider output.ElementProvider, timeout time.Duration, opts ...Option) (*Query, error) {
	if locator.IsZero() {
		return nil, failure.ErrNilLocator
	}
	if provider == nil {
		return nil, failure.ErrNilProvider
	}
	if timeout < 0 {
		return nil, failure.ErrInvalidPeriod
	}
	o := DefaultOptions(timeout)
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Query{locator: locator, provider: provider, opts: o}, nil
}

// Find is a shorthand for New followed by Elements.
func Find(provider output.ElementProvider, locator entity.Locator, timeout time.Duration, opts ...Option) ([]output.Element, error) {
	q, err := New(locator, provider, timeout, opts...)
	if err != nil {
		return nil, err
	}
	return q.Elements()
}

// With derives a new query with extra options applied on top of these.
func (q *Query) With(opts ...Option) (*Query, error) {
	o := q.opts.clone()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Query{locator: q.locator, provider: q.provider, opts: o}, nil
}

func (q *Query) Locator() entity.Locator { return q.locator }
func (q *Query) Options() Options        { return q.opts.clone() }

func (q *Query) String() string {
	return q.locator.String()
}

// Valid reports whether el passes every configured check. Read errors count
// as invalid.
func (q *Query) Valid(el output.Element) bool {
	ok, err := q.validate(el)
	return err == nil && ok
}

func (q *Query) validate(el output.Element) (bool, error) {
	if el == nil {
		return false, nil
	}
	target := el
	if u, ok := el.(output.Unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			target = inner
		}
	}

	if q.opts.CheckEnabled {
		enabled, err := target.Enabled()
		if err != nil || !enabled {
			return false, err
		}
	}
	if q.opts.CheckVisibility {
		visible, err := target.Visible()
		if err != nil || !visible {
			return false, err
		}
	}
	for _, cond := range q.opts.Conditions {
		if !cond(target) {
			return false, nil
		}
	}
	return true, nil
}

// Element waits for exactly one valid element.
func (q *Query) Element() (output.Element, error) {
	single := &Query{locator: q.locator, provider: q.provider, opts: q.opts.clone()}
	single.opts.ExpectedCount = 1

	els, err := single.Elements()
	if err != nil {
		return nil, err
	}
	return els[0], nil
}

func (q *Query) Elements() ([]output.Element, error) {
	start := time.Now()
	found, seen, err := q.run()
	q.observe(time.Since(start), seen, err)
	return found, err
}

// run returns the matching elements and the number of valid elements seen on
// the last poll, which is also reported when the wait fails.
func (q *Query) run() ([]output.Element, int, error) {
	w, err := wait.New(q, wait.Config{Timeout: q.opts.Timeout, PollInterval: q.opts.PollInterval})
	if err != nil {
		return nil, 0, err
	}
	if q.opts.WaitEnabled {
		if err := w.Ignore(q.provider.NotFoundKind()); err != nil {
			return nil, 0, err
		}
	}
	if err := w.Ignore(q.opts.IgnoredKinds...); err != nil {
		return nil, 0, err
	}
	w.OnTimeout(func(q *Query, last error) error {
		return &TimeoutError{
			Locator: q.locator,
			Timeout: q.opts.Timeout,
			Err:     &wait.TimeoutError{Context: q, Timeout: q.opts.Timeout, Last: last},
		}
	})

	seen := 0
	found, err := wait.Until(w, func(q *Query) ([]output.Element, error) {
		valid, err := q.poll()
		seen = len(valid)
		if err != nil || !q.matches(len(valid)) {
			return nil, err
		}
		return valid, nil
	})
	return found, seen, err
}

func (q *Query) matches(n int) bool {
	return (q.opts.ExpectedCount == AnyCount && n > 0) || n == q.opts.ExpectedCount
}

// poll returns the valid elements currently matching the locator, whatever
// their count.
func (q *Query) poll() ([]output.Element, error) {
	all, err := q.provider.Elements(q.locator)
	if err != nil {
		return nil, err
	}

	valid := make([]output.Element, 0, len(all))
	for _, el := range all {
		ok, err := q.validate(el)
		if err != nil {
			return nil, err
		}
		if ok {
			valid = append(valid, el)
		}
	}

	return valid, nil
}

func (q *Query) observe(elapsed time.Duration, found int, err error) {
	if q.opts.Observer == nil {
		return
	}
	ignored := make([]string, 0, len(q.opts.IgnoredKinds))
	for _, k := range q.opts.IgnoredKinds {
		ignored = append(ignored, k.String())
	}
	q.opts.Observer.ObserveQuery(entity.QueryRecord{
		Locator:         q.locator,
		WaitEnabled:     q.opts.WaitEnabled,
		CheckVisibility: q.opts.CheckVisibility,
		CheckEnabled:    q.opts.CheckEnabled,
		ExpectedCount:   q.opts.ExpectedCount,
		Timeout:         q.opts.Timeout,
		IgnoredKinds:    ignored,
		Conditions:      len(q.opts.Conditions),
		Elapsed:         elapsed,
		Found:           found,
		Err:             err,
	})
}
