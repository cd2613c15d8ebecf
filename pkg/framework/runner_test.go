package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func waitCtx(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerCritical(t *testing.T) {
	r := NewRunner()
	r.Go(NamedRun("background", RunFunc(waitCtx)))
	r.GoCritical(RunFunc(func(context.Context) error { return nil }))
	require.NoError(t, r.Wait())
	require.Len(t, r.Runners, 2)
	require.Equal(t, "background", r.Runners[0].(Named).Name())
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner()
	r.GoCritical(RunFunc(func(context.Context) error { return errBoom }))
	r.Go(RunFunc(waitCtx), RunFunc(waitCtx))
	err := r.Wait()
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, "boom", err.Error())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(waitCtx))
	time.AfterFunc(10*time.Millisecond, r.Stop)
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errBoom, io.EOF)
	err := errs.Aggregate()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "Multiple errors:\nboom\nEOF", err.Error())
}

type closer struct{ closed chan struct{} }

func (c *closer) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.closed
		return io.ErrClosedPipe
	})
	require.ErrorIs(t, err, context.Canceled)

	c = &closer{closed: make(chan struct{})}
	require.ErrorIs(t, RunWithContextCloser(context.Background(), c, func() error { return errBoom }), errBoom)
	_, ok := <-c.closed
	require.False(t, ok)
}
