package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() (*Hub, *MemoryBroker, *metrics.Metrics) {
	broker := NewMemoryBroker()
	m := metrics.New()
	return NewHub(broker, m, slog.New(slog.NewTextHandler(io.Discard, nil))), broker, m
}

func change(table, eventID string) model.Change {
	rec, _ := json.Marshal(map[string]string{"event_id": eventID})
	return model.Change{Table: table, Type: model.ChangeInsert, Record: rec}
}

func receive(t *testing.T, sub *Subscriber) Message {
	t.Helper()
	select {
	case msg := <-sub.C():
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func assertEmpty(t *testing.T, sub *Subscriber) {
	t.Helper()
	select {
	case msg := <-sub.C():
		t.Fatalf("unexpected message for table %s", msg.Change.Table)
	default:
	}
}

func TestHub_TableSubscriberOnlyGetsItsTables(t *testing.T) {
	hub, _, _ := newTestHub()
	teams := hub.SubscribeTables([]string{"teams", "team_members"})
	users := hub.SubscribeTables([]string{"users"})

	hub.Dispatch(change("teams", ""))
	hub.Dispatch(change("scores", "e1"))

	msg := receive(t, teams)
	assert.Equal(t, EventChange, msg.Event)
	assert.Equal(t, "teams", msg.Change.Table)
	assertEmpty(t, teams)
	assertEmpty(t, users)
}

func TestHub_LeaderboardSubscriberFiltersByEvent(t *testing.T) {
	hub, _, _ := newTestHub()
	e1 := hub.SubscribeLeaderboard("e1")
	all := hub.SubscribeLeaderboard("")

	hub.Dispatch(change("scores", "e2"))
	hub.Dispatch(change("team_judges", "e1"))
	hub.Dispatch(change("teams", "e1"))

	msg := receive(t, e1)
	assert.Equal(t, EventLeaderboard, msg.Event)
	assert.Equal(t, "team_judges", msg.Change.Table)
	assertEmpty(t, e1)

	assert.Equal(t, "scores", receive(t, all).Change.Table)
	assert.Equal(t, "team_judges", receive(t, all).Change.Table)
	assertEmpty(t, all)
}

func TestHub_PreservesArrivalOrder(t *testing.T) {
	hub, _, _ := newTestHub()
	sub := hub.SubscribeTables([]string{"scores"})

	for _, typ := range []string{model.ChangeInsert, model.ChangeUpdate, model.ChangeDelete} {
		c := change("scores", "e1")
		c.Type = typ
		hub.Dispatch(c)
	}
	assert.Equal(t, model.ChangeInsert, receive(t, sub).Change.Type)
	assert.Equal(t, model.ChangeUpdate, receive(t, sub).Change.Type)
	assert.Equal(t, model.ChangeDelete, receive(t, sub).Change.Type)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub, _, m := newTestHub()
	slow := hub.SubscribeTables([]string{"scores"})

	for i := 0; i < subscriberBuffer+3; i++ {
		hub.Dispatch(change("scores", "e1"))
	}
	assert.Equal(t, int64(3), slow.Dropped())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RealtimeDropped.WithLabelValues("scores")))
}

func TestHub_Unsubscribe(t *testing.T) {
	hub, _, m := newTestHub()
	sub := hub.SubscribeTables([]string{"users"})
	assert.Equal(t, 1, hub.SubscriberCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RealtimeSubscribers))

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.SubscriberCount())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RealtimeSubscribers))

	hub.Dispatch(change("users", ""))
	assertEmpty(t, sub)
}

func TestHub_RunRelaysFromBroker(t *testing.T) {
	hub, broker, _ := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := hub.SubscribeTables([]string{"events"})
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	// Run subscribes asynchronously; publish until the subscription is live.
	require.Eventually(t, func() bool {
		_ = broker.Publish(ctx, change("events", ""))
		select {
		case msg := <-sub.C():
			return msg.Change.Table == "events"
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestStream_WritesServerSentEvents(t *testing.T) {
	hub, _, _ := newTestHub()
	sub := hub.SubscribeLeaderboard("e1")

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/realtime/leaderboard?eventId=e1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		Stream(rec, req, sub, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	hub.Dispatch(change("scores", "e1"))
	require.Eventually(t, func() bool { return len(sub.C()) == 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, ": connected\n\n"))
	assert.Contains(t, body, "event: leaderboard\ndata: {\"table\":\"scores\"")
}

// flakyBroker fails the first Subscribe calls before delegating.
type flakyBroker struct {
	*MemoryBroker
	failures atomic.Int32
}

func (b *flakyBroker) Subscribe(ctx context.Context) (<-chan model.Change, error) {
	if b.failures.Add(-1) >= 0 {
		return nil, errors.New("redis: connection refused")
	}
	return b.MemoryBroker.Subscribe(ctx)
}

func TestHub_RunResubscribesAfterFailure(t *testing.T) {
	broker := &flakyBroker{MemoryBroker: NewMemoryBroker()}
	broker.failures.Store(2)
	hub := NewHub(broker, metrics.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.resubscribeDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.SubscribeTables([]string{"scores"})
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	require.Eventually(t, func() bool {
		_ = broker.Publish(ctx, change("scores", "e1"))
		select {
		case msg := <-sub.C():
			return msg.Change.Table == "scores"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, broker.failures.Load(), int32(0))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}
