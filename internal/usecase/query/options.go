package query

import (
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/failure"
	"browser-harness/internal/usecase/wait"
)

// AnyCount accepts any positive number of valid elements.
const AnyCount = -1

type Condition func(output.Element) bool

type Options struct {
	WaitEnabled     bool
	CheckVisibility bool
	CheckEnabled    bool
	ExpectedCount   int
	Timeout         time.Duration
	PollInterval    time.Duration
	IgnoredKinds    []failure.Kind
	Conditions      []Condition
	Observer        output.QueryObserver
}

func DefaultOptions(timeout time.Duration) Options {
	return Options{
		WaitEnabled:     true,
		CheckVisibility: true,
		CheckEnabled:    true,
		ExpectedCount:   AnyCount,
		Timeout:         timeout,
		PollInterval:    wait.DefaultPollInterval,
	}
}

func (o Options) clone() Options {
	out := o
	out.IgnoredKinds = append([]failure.Kind(nil), o.IgnoredKinds...)
	out.Conditions = append([]Condition(nil), o.Conditions...)
	return out
}

type Option func(*Options) error

// SkipWait makes a missing element fail immediately instead of being polled for.
func SkipWait() Option {
	return func(o *Options) error {
		o.WaitEnabled = false
		return nil
	}
}

func SkipVisibility() Option {
	return func(o *Options) error {
		o.CheckVisibility = false
		return nil
	}
}

func SkipEnabledCheck() Option {
	return func(o *Options) error {
		o.CheckEnabled = false
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d < 0 {
			return failure.ErrInvalidPeriod
		}
		o.Timeout = d
		return nil
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(o *Options) error {
		if d < 0 {
			return failure.ErrInvalidPeriod
		}
		o.PollInterval = d
		return nil
	}
}

func ValidateCount(n int) error {
	if n <= 0 && n != AnyCount {
		return failure.ErrInvalidCount
	}
	return nil
}

func ExpectCount(n int) Option {
	return func(o *Options) error {
		if err := ValidateCount(n); err != nil {
			return err
		}
		o.ExpectedCount = n
		return nil
	}
}

// IgnoreFailure keeps polling through failures of the given kinds.
func IgnoreFailure(kinds ...failure.Kind) Option {
	return func(o *Options) error {
		for _, k := range kinds {
			if !k.Valid() {
				return failure.ErrInvalidKind
			}
		}
		for _, k := range kinds {
			if !containsKind(o.IgnoredKinds, k) {
				o.IgnoredKinds = append(o.IgnoredKinds, k)
			}
		}
		return nil
	}
}

func WithCondition(c Condition) Option {
	return func(o *Options) error {
		if c == nil {
			return failure.ErrNilPredicate
		}
		o.Conditions = append(o.Conditions, c)
		return nil
	}
}

func WithObserver(obs output.QueryObserver) Option {
	return func(o *Options) error {
		o.Observer = obs
		return nil
	}
}

func containsKind(kinds []failure.Kind, k failure.Kind) bool {
	for _, known := range kinds {
		if known == k {
			return true
		}
	}
	return false
}
