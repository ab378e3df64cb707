package wait

import (
	"reflect"
	"time"

	"browser-harness/internal/domain/failure"
)

const DefaultPollInterval = 500 * time.Millisecond

type Config struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// Wait repeatedly evaluates a condition against a context value until it
// succeeds or the timeout elapses. A Wait is not safe for concurrent use.
type Wait[C any] struct {
	ctx       C
	timeout   time.Duration
	poll      time.Duration
	ignored   []failure.Kind
	onTimeout func(ctx C, last error) error

	now   func() time.Time
	sleep func(time.Duration)
}

func New[C any](ctx C, cfg Config) (*Wait[C], error) {
	if isNil(ctx) {
		return nil, failure.ErrNilContext
	}
	if cfg.Timeout < 0 || cfg.PollInterval < 0 {
		return nil, failure.ErrInvalidPeriod
	}
	poll := cfg.PollInterval
	if poll == 0 {
		poll = DefaultPollInterval
	}
	return &Wait[C]{
		ctx:     ctx,
		timeout: cfg.Timeout,
		poll:    poll,
		now:     time.Now,
		sleep:   time.Sleep,
	}, nil
}

func (w *Wait[C]) Timeout() time.Duration      { return w.timeout }
func (w *Wait[C]) PollInterval() time.Duration { return w.poll }

// Ignore marks failure kinds that should be swallowed while polling. Adding
// a kind twice has no effect. Nothing is added if any kind is invalid.
func (w *Wait[C]) Ignore(kinds ...failure.Kind) error {
	for _, k := range kinds {
		if !k.Valid() {
			return failure.ErrInvalidKind
		}
	}
	for _, k := range kinds {
		if !w.ignores(k) {
			w.ignored = append(w.ignored, k)
		}
	}
	return nil
}

func (w *Wait[C]) Ignored() []failure.Kind {
	out := make([]failure.Kind, len(w.ignored))
	copy(out, w.ignored)
	return out
}

// OnTimeout replaces the error produced when the wait runs out of time.
func (w *Wait[C]) OnTimeout(fn func(ctx C, last error) error) {
	w.onTimeout = fn
}

func (w *Wait[C]) UntilTrue(cond func(C) (bool, error)) error {
	_, err := Until(w, cond)
	return err
}

// Until evaluates cond at least once. A true bool or a non-nil reference ends
// the wait; errors of an ignored kind are remembered and polling continues;
// any other error is returned as is.
func Until[C, R any](w *Wait[C], cond func(C) (R, error)) (R, error) {
	var zero R
	if cond == nil {
		return zero, failure.ErrNilCondition
	}
	if !resultTypeAllowed(reflect.TypeOf((*R)(nil)).Elem()) {
		return zero, failure.ErrResultType
	}

	start := w.now()
	var last error
	for {
		result, err := cond(w.ctx)
		switch {
		case err != nil:
			if !w.ignorable(err) {
				return zero, err
			}
			last = err
		case satisfied(result):
			return result, nil
		}

		if w.now().Sub(start) >= w.timeout {
			return zero, w.timeoutError(last)
		}
		w.sleep(w.poll)
	}
}

func (w *Wait[C]) timeoutError(last error) error {
	if w.onTimeout != nil {
		return w.onTimeout(w.ctx, last)
	}
	return &TimeoutError{Context: w.ctx, Timeout: w.timeout, Last: last}
}

func (w *Wait[C]) ignorable(err error) bool {
	k, ok := failure.KindOf(err)
	return ok && w.ignores(k)
}

func (w *Wait[C]) ignores(k failure.Kind) bool {
	for _, known := range w.ignored {
		if known == k {
			return true
		}
	}
	return false
}

func resultTypeAllowed(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Pointer, reflect.Slice, reflect.Map,
		reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func satisfied(result any) bool {
	if b, ok := result.(bool); ok {
		return b
	}
	return !isNil(result)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
