package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/pkg/lock"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []command.GenerateAlertsCommand
	err   error
}

func (g *fakeGenerator) Handle(_ context.Context, cmd command.GenerateAlertsCommand) ([]domain.StockAlert, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, cmd)
	return nil, g.err
}

func (g *fakeGenerator) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (l *fakeLocker) Acquire(context.Context, string, time.Duration) (lock.ReleaseFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.held {
		return nil, lock.ErrNotAcquired
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, nil
}

func TestRunOnce_WithoutLocker(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewAlertWorker(gen, nil, time.Hour, 14)

	require.NoError(t, w.RunOnce(context.Background()))
	require.Len(t, gen.calls, 1)
	assert.Equal(t, 14, gen.calls[0].Horizon())
}

func TestRunOnce_ReleasesLock(t *testing.T) {
	gen := &fakeGenerator{}
	locker := &fakeLocker{}
	w := NewAlertWorker(gen, locker, time.Hour, 30)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, 1, gen.count())
	assert.False(t, locker.held)
	assert.Equal(t, 1, locker.released)
}

func TestRunOnce_SkipsWhenLockHeld(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewAlertWorker(gen, &fakeLocker{held: true}, time.Hour, 30)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Zero(t, gen.count())
}

func TestRunOnce_Errors(t *testing.T) {
	lockErr := errors.New("redis down")
	w := NewAlertWorker(&fakeGenerator{}, &fakeLocker{err: lockErr}, time.Hour, 30)
	assert.ErrorIs(t, w.RunOnce(context.Background()), lockErr)

	genErr := domain.NewInternal("scan failed", errors.New("boom"))
	locker := &fakeLocker{}
	w = NewAlertWorker(&fakeGenerator{err: genErr}, locker, time.Hour, 30)
	assert.ErrorIs(t, w.RunOnce(context.Background()), domain.ErrInternal)
	assert.Equal(t, 1, locker.released)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewAlertWorker(gen, nil, 10*time.Millisecond, 30)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return gen.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	gen := &fakeGenerator{}
	NewAlertWorker(gen, nil, 0, 30).Run(context.Background())
	assert.Zero(t, gen.count())
}
