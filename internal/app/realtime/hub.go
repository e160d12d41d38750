package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/platform/metrics"
)

const (
	EventChange      = "change"
	EventLeaderboard = "leaderboard"

	subscriberBuffer = 16

	defaultResubscribeDelay = 2 * time.Second
)

// Message is one change addressed to a subscriber under an SSE event name.
type Message struct {
	Event  string
	Change model.Change
}

// Subscriber receives the changes its filter accepts. Changes arriving
// while its buffer is full are dropped and counted.
type Subscriber struct {
	ch      chan Message
	event   string
	accept  func(model.Change) bool
	dropped atomic.Int64
}

func (s *Subscriber) C() <-chan Message { return s.ch }

func (s *Subscriber) Dropped() int64 { return s.dropped.Load() }

// Hub fans changes from the broker out to local subscribers.
type Hub struct {
	broker  Broker
	logger  *slog.Logger
	metrics *metrics.Metrics

	resubscribeDelay time.Duration

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func NewHub(broker Broker, m *metrics.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		broker:  broker,
		logger:  logger,
		metrics: m,
		subs:    make(map[*Subscriber]struct{}),

		resubscribeDelay: defaultResubscribeDelay,
	}
}

// Run consumes the broker until ctx is cancelled. A failed subscription or
// a closed feed is retried after a delay.
func (h *Hub) Run(ctx context.Context) error {
	for {
		if err := h.consume(ctx); err != nil {
			h.logger.Error("realtime hub subscription failed", "error", err)
		}
		if ctx.Err() != nil {
			h.logger.Info("realtime hub stopped")
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			h.logger.Info("realtime hub stopped")
			return ctx.Err()
		case <-time.After(h.resubscribeDelay):
		}
	}
}

func (h *Hub) consume(ctx context.Context) error {
	changes, err := h.broker.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("hub subscribe: %w", err)
	}
	h.logger.Info("realtime hub subscribed")
	for change := range changes {
		h.Dispatch(change)
	}
	if ctx.Err() == nil {
		h.logger.Warn("realtime feed closed, resubscribing")
	}
	return nil
}

// Dispatch delivers change to every matching subscriber without blocking.
func (h *Hub) Dispatch(change model.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.accept(change) {
			continue
		}
		select {
		case sub.ch <- Message{Event: sub.event, Change: change}:
		default:
			sub.dropped.Add(1)
			h.metrics.RealtimeDropped.WithLabelValues(change.Table).Inc()
			h.logger.Warn("subscriber buffer full, dropping change", "table", change.Table)
		}
	}
}

// SubscribeTables returns a subscriber for changes to any of tables.
func (h *Hub) SubscribeTables(tables []string) *Subscriber {
	set := slices.Clone(tables)
	return h.add(EventChange, func(c model.Change) bool {
		return slices.Contains(set, c.Table)
	})
}

// SubscribeLeaderboard returns a subscriber for score and judge assignment
// changes. A non-empty eventID limits it to that event.
func (h *Hub) SubscribeLeaderboard(eventID string) *Subscriber {
	return h.add(EventLeaderboard, func(c model.Change) bool {
		if c.Table != "scores" && c.Table != "team_judges" {
			return false
		}
		return eventID == "" || c.EventID() == eventID
	})
}

func (h *Hub) add(event string, accept func(model.Change) bool) *Subscriber {
	sub := &Subscriber{
		ch:     make(chan Message, subscriberBuffer),
		event:  event,
		accept: accept,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	h.metrics.RealtimeSubscribers.Inc()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if ok {
		h.metrics.RealtimeSubscribers.Dec()
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
