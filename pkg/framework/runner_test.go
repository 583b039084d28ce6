package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type runnableFunc func(context.Context) error

func (f runnableFunc) Run(ctx context.Context) error { return f(ctx) }

func TestRunnerCollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner()
	r.Go(
		runnableFunc(func(context.Context) error { return nil }),
		runnableFunc(func(context.Context) error { return boom }),
		runnableFunc(func(context.Context) error { return context.Canceled }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Equal(t, []error{boom}, agg.Errors)
}

func TestRunnerWaitNoErrors(t *testing.T) {
	r := NewRunner()
	r.Go(runnableFunc(func(context.Context) error { return nil }))
	require.NoError(t, r.Wait())
}

func TestRunnerContextReachesRunnables(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	got := make(chan interface{}, 1)
	r := NewRunnerWith(ctx)
	r.Go(runnableFunc(func(ctx context.Context) error {
		got <- ctx.Value(ctxKey{})
		return nil
	}))
	require.NoError(t, r.Wait())
	require.Equal(t, "v", <-got)
}

func TestNamedRun(t *testing.T) {
	r := NamedRun("pump", runnableFunc(func(context.Context) error { return nil }))
	named, ok := r.(Named)
	require.True(t, ok)
	require.Equal(t, "pump", named.Name())
	require.NoError(t, r.Run(context.Background()))
}

func TestRunWithContextCancel(t *testing.T) {
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	canceled := false
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		close(release)
	}, func() error {
		<-release
		return errors.New("ignored")
	})
	require.Equal(t, context.Canceled, err)
	require.True(t, canceled)
}

func TestRunWithContextCancelPlainReturn(t *testing.T) {
	boom := errors.New("boom")
	err := RunWithContextCancel(context.Background(), func() {
		t.Fatal("onCancel must not run")
	}, func() error {
		return boom
	})
	require.Equal(t, boom, err)
}

// closeRec counts Close calls and releases anything blocked on it,
// like closing a listener aborts Accept.
type closeRec struct {
	n       int
	unblock chan struct{}
}

func (c *closeRec) Close() error {
	c.n++
	if c.unblock != nil && c.n == 1 {
		close(c.unblock)
	}
	return nil
}

func TestRunWithContextCloserClosesOnReturn(t *testing.T) {
	rec := &closeRec{}
	err := RunWithContextCloser(context.Background(), rec, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, rec.n)
}

func TestRunWithContextCloserClosesOnCancel(t *testing.T) {
	rec := &closeRec{unblock: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, rec, func() error {
		<-rec.unblock
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, rec.n)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil)
	require.NoError(t, errs.Aggregate())
	e1, e2 := errors.New("first"), errors.New("second")
	errs.Add(e1, nil, e2)
	err := errs.Aggregate()
	require.Error(t, err)
	require.Equal(t, "Multiple errors:\nfirst\nsecond", err.Error())
}
