package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hackathon_hub/internal/app/realtime"
	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/platform/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLease struct {
	mu       sync.Mutex
	released bool
	refresh  func() error
}

func (l *fakeLease) Refresh(ctx context.Context) error {
	if l.refresh != nil {
		return l.refresh()
	}
	return nil
}

func (l *fakeLease) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = true
	return nil
}

func (l *fakeLease) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

type FakeLocker struct {
	AcquireFunc func(ctx context.Context) (Lease, error)
	ttl         time.Duration
}

func (f *FakeLocker) Acquire(ctx context.Context) (Lease, error) { return f.AcquireFunc(ctx) }
func (f *FakeLocker) TTL() time.Duration                        { return f.ttl }

type fakeListener struct {
	notifications chan string
	listened      chan string
}

func (f *fakeListener) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.listened <- sql
	return pgconn.CommandTag{}, nil
}

func (f *fakeListener) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p := <-f.notifications:
		return &pgconn.Notification{Channel: NotifyChannel, Payload: p}, nil
	}
}

func (f *fakeListener) Close(ctx context.Context) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChangeRelay_PublishesNotificationsWhileLeader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := realtime.NewMemoryBroker()
	changes, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	lease := &fakeLease{}
	locker := &FakeLocker{ttl: time.Minute, AcquireFunc: func(ctx context.Context) (Lease, error) { return lease, nil }}
	listener := &fakeListener{notifications: make(chan string, 4), listened: make(chan string, 1)}

	relay := NewChangeRelay(locker, func(ctx context.Context) (Listener, error) { return listener, nil },
		broker, metrics.New(), discardLogger())

	done := make(chan struct{})
	go func() {
		relay.Start(ctx)
		close(done)
	}()

	select {
	case stmt := <-listener.listened:
		assert.Equal(t, "LISTEN row_changes", stmt)
	case <-time.After(2 * time.Second):
		t.Fatal("relay never issued LISTEN")
	}

	listener.notifications <- `not json`
	listener.notifications <- `{"table":"scores","type":"INSERT","record":{"team_id":"t1","event_id":"e1"}}`

	select {
	case c := <-changes:
		assert.Equal(t, "scores", c.Table)
		assert.Equal(t, model.ChangeInsert, c.Type)
		assert.Equal(t, "e1", c.EventID())
	case <-time.After(2 * time.Second):
		t.Fatal("change was not published")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
	assert.True(t, lease.Released())
}

func TestChangeRelay_StandsByWithoutLock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts int
	var mu sync.Mutex
	locker := &FakeLocker{ttl: 20 * time.Millisecond, AcquireFunc: func(ctx context.Context) (Lease, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		return nil, common.ErrLockNotAcquired
	}}
	dialed := false
	relay := NewChangeRelay(locker, func(ctx context.Context) (Listener, error) {
		dialed = true
		return nil, errors.New("should not dial")
	}, realtime.NewMemoryBroker(), metrics.New(), discardLogger())

	go relay.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, attempts, 2)
	assert.False(t, dialed)
}
