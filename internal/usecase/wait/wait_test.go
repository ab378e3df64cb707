package wait

import (
	"errors"
	"testing"
	"time"

	"browser-harness/internal/domain/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	calls int
}

// fakeClock advances only when the wait sleeps.
type fakeClock struct {
	t      time.Time
	sleeps int
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps++
	c.t = c.t.Add(d)
}

func newTestWait(t *testing.T, timeout, poll time.Duration) (*Wait[*probe], *probe, *fakeClock) {
	t.Helper()
	p := &probe{}
	w, err := New(p, Config{Timeout: timeout, PollInterval: poll})
	require.NoError(t, err)
	clock := &fakeClock{t: time.Unix(0, 0)}
	w.now = clock.now
	w.sleep = clock.sleep
	return w, p, clock
}

func TestNew_NilContext(t *testing.T) {
	var p *probe
	w, err := New(p, Config{Timeout: time.Second})
	assert.Nil(t, w)
	assert.ErrorIs(t, err, failure.ErrNilContext)

	_, err = New[any](nil, Config{Timeout: time.Second})
	assert.ErrorIs(t, err, failure.ErrNilContext)
}

func TestNew_Defaults(t *testing.T) {
	w, err := New(&probe{}, Config{Timeout: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, w.Timeout())
	assert.Equal(t, DefaultPollInterval, w.PollInterval())
	assert.Empty(t, w.Ignored())
}

func TestNew_NegativeDurations(t *testing.T) {
	_, err := New(&probe{}, Config{Timeout: -time.Second})
	assert.ErrorIs(t, err, failure.ErrInvalidPeriod)

	_, err = New(&probe{}, Config{Timeout: time.Second, PollInterval: -1})
	assert.ErrorIs(t, err, failure.ErrInvalidPeriod)
}

func TestIgnore(t *testing.T) {
	w, _, _ := newTestWait(t, time.Second, 10*time.Millisecond)

	require.NoError(t, w.Ignore(failure.KindElementNotFound, failure.KindElementNotFound))
	require.NoError(t, w.Ignore(failure.KindStaleElement, failure.KindElementNotFound))
	assert.Equal(t, []failure.Kind{failure.KindElementNotFound, failure.KindStaleElement}, w.Ignored())

	err := w.Ignore(failure.KindDriver, failure.Kind("bogus"))
	assert.ErrorIs(t, err, failure.ErrInvalidKind)
	assert.Len(t, w.Ignored(), 2, "nothing is added when a kind is invalid")
}

func TestUntil_NilCondition(t *testing.T) {
	w, _, _ := newTestWait(t, time.Second, 10*time.Millisecond)

	_, err := Until[*probe, bool](w, nil)
	assert.ErrorIs(t, err, failure.ErrNilCondition)
}

func TestUntil_RejectsValueResults(t *testing.T) {
	w, p, _ := newTestWait(t, time.Second, 10*time.Millisecond)

	_, err := Until(w, func(p *probe) (int, error) {
		p.calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, failure.ErrResultType)

	_, err = Until(w, func(p *probe) (string, error) { return "x", nil })
	assert.ErrorIs(t, err, failure.ErrResultType)
	assert.Zero(t, p.calls, "condition must not run when the result type is rejected")
}

func TestUntil_ImmediateTrue(t *testing.T) {
	w, p, clock := newTestWait(t, time.Second, 10*time.Millisecond)

	ok, err := Until(w, func(p *probe) (bool, error) {
		p.calls++
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, p.calls)
	assert.Zero(t, clock.sleeps, "no sleep after a successful evaluation")
}

func TestUntil_ReturnsFirstNonNilReference(t *testing.T) {
	w, _, clock := newTestWait(t, time.Second, 100*time.Millisecond)

	want := []string{"a"}
	got, err := Until(w, func(p *probe) ([]string, error) {
		p.calls++
		if p.calls < 3 {
			return nil, nil
		}
		return want, nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, clock.sleeps)
}

func TestUntil_ZeroTimeoutEvaluatesOnce(t *testing.T) {
	w, p, clock := newTestWait(t, 0, 10*time.Millisecond)

	_, err := Until(w, func(p *probe) (bool, error) {
		p.calls++
		return false, nil
	})
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, p.calls)
	assert.Zero(t, clock.sleeps)
	assert.Nil(t, te.Last)
}

func TestUntil_TimeoutCarriesLastIgnoredError(t *testing.T) {
	w, p, _ := newTestWait(t, 300*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, w.Ignore(failure.KindElementNotFound))

	notFound := failure.New(failure.KindElementNotFound, "find", errors.New("nothing"))
	_, err := Until(w, func(p *probe) (*probe, error) {
		p.calls++
		return nil, notFound
	})

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Same(t, p, te.Context)
	assert.Equal(t, 300*time.Millisecond, te.Timeout)
	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, 4, p.calls, "evaluations at 0, 100, 200 and 300ms")
}

func TestUntil_PropagatesOtherErrors(t *testing.T) {
	w, p, _ := newTestWait(t, time.Second, 10*time.Millisecond)
	require.NoError(t, w.Ignore(failure.KindElementNotFound))

	boom := failure.New(failure.KindDriver, "find", errors.New("session died"))
	_, err := Until(w, func(p *probe) (bool, error) {
		p.calls++
		return false, boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, p.calls)

	plain := errors.New("plain")
	_, err = Until(w, func(*probe) (bool, error) { return false, plain })
	assert.Same(t, plain, err, "unkinded errors are never ignored")
}

func TestUntil_RecoversAfterIgnoredError(t *testing.T) {
	w, _, _ := newTestWait(t, time.Second, 10*time.Millisecond)
	require.NoError(t, w.Ignore(failure.KindStaleElement))

	ok, err := Until(w, func(p *probe) (bool, error) {
		p.calls++
		if p.calls == 1 {
			return false, failure.New(failure.KindStaleElement, "read", nil)
		}
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUntil_OnTimeoutHook(t *testing.T) {
	w, _, _ := newTestWait(t, 0, 10*time.Millisecond)
	custom := errors.New("custom timeout")
	var seen *probe
	w.OnTimeout(func(ctx *probe, last error) error {
		seen = ctx
		return custom
	})

	err := w.UntilTrue(func(*probe) (bool, error) { return false, nil })
	assert.Same(t, custom, err)
	assert.NotNil(t, seen)
}

func TestUntil_RealClock(t *testing.T) {
	w, err := New(&probe{}, Config{Timeout: 50 * time.Millisecond, PollInterval: 5 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	err = w.UntilTrue(func(*probe) (bool, error) { return false, nil })
	elapsed := time.Since(start)

	var te *TimeoutError
	assert.ErrorAs(t, err, &te)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}
