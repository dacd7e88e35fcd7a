package binding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/usecasemesh/core"
	"github.com/hupe1980/usecasemesh/executor"
	"github.com/hupe1980/usecasemesh/runner"
	"github.com/hupe1980/usecasemesh/state"
)

var errBoom = errors.New("boom")

// counter emits 1..n; n < 0 fails immediately, n == 1000 blocks after the first value.
func counter(ctx context.Context, out core.Sender[int], n int) error {
	switch {
	case n < 0:
		return errBoom
	case n == 1000:
		if err := out.Send(ctx, 1); err != nil {
			return err
		}
		<-ctx.Done()
		return context.Cause(ctx)
	}
	for i := 1; i <= n; i++ {
		if err := out.Send(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

type collector[S any] struct {
	mu  sync.Mutex
	got []S
}

func (c *collector[S]) observe(s *state.Stream[S]) {
	s.Observe(func(v S) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.got = append(c.got, v)
	})
}

func (c *collector[S]) snapshot() []S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]S(nil), c.got...)
}

func newRunner(t *testing.T) (*runner.Runner[int, int], *executor.Serial) {
	t.Helper()
	delivery := executor.NewSerial()
	r := runner.New[int, int](core.WorkloadFunc[int, int](counter), func(o *runner.Options[int]) {
		o.DeliveryExecutor = delivery
	})
	t.Cleanup(func() {
		r.Close()
		delivery.Close()
	})
	return r, delivery
}

func settle(t *testing.T, h *runner.Handle, delivery *executor.Serial) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := h.Wait(ctx)
	require.NoError(t, err)
	require.NoError(t, delivery.Flush(ctx))
}

func TestBind_SuccessCarriesLastResult(t *testing.T) {
	r, delivery := newRunner(t)
	s := state.NewStream[state.State[int]]()
	c := &collector[state.State[int]]{}
	c.observe(s)

	settle(t, Bind(r, s).Invoke(3), delivery)

	assert.Equal(t, []state.State[int]{
		state.Loading[int](),
		state.Result(1),
		state.Result(2),
		state.Result(3),
		state.Success(3, true),
	}, c.snapshot())
}

func TestBind_SuccessWithoutResults(t *testing.T) {
	r, delivery := newRunner(t)
	s := state.NewStream[state.State[int]]()
	c := &collector[state.State[int]]{}
	c.observe(s)

	settle(t, Bind(r, s).Invoke(0), delivery)

	got := c.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, state.KindSuccess, got[1].Kind())
	_, ok := got[1].Value()
	assert.False(t, ok)
}

func TestBind_Error(t *testing.T) {
	r, delivery := newRunner(t)
	s := state.NewStream[state.State[int]]()
	c := &collector[state.State[int]]{}
	c.observe(s)

	settle(t, Bind(r, s).Invoke(-1), delivery)

	got := c.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, state.KindLoading, got[0].Kind())
	assert.Equal(t, state.KindError, got[1].Kind())
	assert.ErrorIs(t, got[1].Err(), errBoom)
}

func TestBind_Cancel(t *testing.T) {
	r, delivery := newRunner(t)
	s := state.NewStream[state.State[int]]()
	c := &collector[state.State[int]]{}
	c.observe(s)

	h := Bind(r, s).Invoke(1000)
	require.Eventually(t, func() bool { return len(c.snapshot()) == 2 }, 5*time.Second, time.Millisecond)
	r.Cancel()
	settle(t, h, delivery)

	assert.Equal(t, []state.State[int]{
		state.Loading[int](),
		state.Result(1),
		state.Cancelled[int](),
	}, c.snapshot())
}

func TestBindLifecycle_SplitsValuesAndStates(t *testing.T) {
	r, delivery := newRunner(t)
	states := state.NewStream[state.State[int]]()
	values := state.NewStream[int]()

	sc := &collector[state.State[int]]{}
	sc.observe(states)
	vc := &collector[int]{}
	vc.observe(values)

	BindLifecycle(r, states, values)
	settle(t, r.Invoke(4), delivery)

	assert.Equal(t, []int{1, 2, 3, 4}, vc.snapshot())
	assert.Equal(t, []state.State[int]{state.Loading[int](), state.Success(4, true)}, sc.snapshot())

	// a run without values does not inherit the previous run's last value
	settle(t, r.Invoke(0), delivery)
	got := sc.snapshot()
	_, ok := got[len(got)-1].Value()
	assert.False(t, ok)
}
