package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/platform/metrics"
	"hackathon_hub/internal/platform/queue"

	"github.com/jackc/pgx/v5/pgconn"
)

// NotifyChannel is the Postgres channel the row change trigger notifies on.
const NotifyChannel = "row_changes"

// Listener is the part of *pgx.Conn the relay needs.
type Listener interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type Lease interface {
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

// Locker grants the single relay lease across instances.
type Locker interface {
	Acquire(ctx context.Context) (Lease, error)
	TTL() time.Duration
}

type redisLocker struct {
	locker *queue.Locker
}

// NewRedisLocker adapts a Redis key lease to Locker.
func NewRedisLocker(l *queue.Locker) Locker {
	return redisLocker{locker: l}
}

func (r redisLocker) Acquire(ctx context.Context) (Lease, error) {
	lock, err := r.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func (r redisLocker) TTL() time.Duration { return r.locker.TTL() }

type Publisher interface {
	Publish(ctx context.Context, change model.Change) error
}

// ChangeRelay forwards database change notifications to the realtime
// broker. Only the instance holding the relay lock listens, so each change
// is published once.
type ChangeRelay struct {
	locker    Locker
	dial      func(ctx context.Context) (Listener, error)
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	retryDelay time.Duration
}

func NewChangeRelay(
	locker Locker,
	dial func(ctx context.Context) (Listener, error),
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ChangeRelay {
	return &ChangeRelay{
		locker:     locker,
		dial:       dial,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		retryDelay: 5 * time.Second,
	}
}

func (w *ChangeRelay) Start(ctx context.Context) {
	w.logger.Info("change relay started", "channel", NotifyChannel)
	for {
		err := w.runOnce(ctx)
		if ctx.Err() != nil {
			w.logger.Info("change relay stopping...")
			return
		}

		delay := w.retryDelay
		switch {
		case errors.Is(err, common.ErrLockNotAcquired):
			w.logger.Debug("relay lock held elsewhere, standing by")
			delay = w.locker.TTL() / 2
		case err != nil:
			w.logger.Error("change relay session ended", "error", err)
		}

		select {
		case <-ctx.Done():
			w.logger.Info("change relay stopping...")
			return
		case <-time.After(delay):
		}
	}
}

// runOnce acquires the lease and relays notifications until the lease is
// lost, the connection fails, or ctx ends.
func (w *ChangeRelay) runOnce(ctx context.Context) error {
	lease, err := w.locker.Acquire(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("acquired relay lock")
	w.metrics.RelayLeader.Set(1)

	leaderCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		w.metrics.RelayLeader.Set(0)
		releaseCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := lease.Release(releaseCtx); err != nil {
			w.logger.Error("failed to release relay lock", "error", err)
		} else {
			w.logger.Info("released relay lock")
		}
	}()

	lost := make(chan error, 1)
	go w.keepLease(leaderCtx, lease, lost, cancel)

	err = w.listen(leaderCtx)
	select {
	case lerr := <-lost:
		return lerr
	default:
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *ChangeRelay) keepLease(ctx context.Context, lease Lease, lost chan<- error, cancel context.CancelFunc) {
	ticker := time.NewTicker(w.locker.TTL() / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lease.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				lost <- fmt.Errorf("relay lease lost: %w", err)
				cancel()
				return
			}
		}
	}
}

func (w *ChangeRelay) listen(ctx context.Context) error {
	conn, err := w.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial listener: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen %s: %w", NotifyChannel, err)
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		w.handleNotification(ctx, n.Payload)
	}
}

func (w *ChangeRelay) handleNotification(ctx context.Context, payload string) {
	var change model.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil || change.Table == "" {
		w.logger.Warn("discarding malformed notification", "error", err)
		w.metrics.RelayNotifications.WithLabelValues("unknown", "malformed").Inc()
		return
	}
	if err := w.publisher.Publish(ctx, change); err != nil {
		w.logger.Error("failed to publish change", "table", change.Table, "error", err)
		w.metrics.RelayNotifications.WithLabelValues(change.Table, "error").Inc()
		return
	}
	w.metrics.RelayNotifications.WithLabelValues(change.Table, "published").Inc()
}
