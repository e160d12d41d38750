package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"hackathon_hub/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// Broker carries row changes between the relay and every API instance.
type Broker interface {
	Publish(ctx context.Context, change model.Change) error
	// Subscribe streams changes until ctx is cancelled, then closes the
	// channel.
	Subscribe(ctx context.Context) (<-chan model.Change, error)
}

// RedisBroker publishes changes on a Redis pub/sub channel.
type RedisBroker struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBroker(client *redis.Client, channel string, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{client: client, channel: channel, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, change model.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("RedisBroker.Publish marshal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("RedisBroker.Publish: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan model.Change, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so no publish is missed
	// after Subscribe returns.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("RedisBroker.Subscribe: %w", err)
	}

	out := make(chan model.Change, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change model.Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					b.logger.Warn("discarding malformed change message", "error", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// MemoryBroker is an in-process Broker for single-node deployments and
// tests. A subscriber that falls 64 changes behind misses changes.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[chan model.Change]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[chan model.Change]struct{})}
}

func (b *MemoryBroker) Publish(ctx context.Context, change model.Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return ctx.Err()
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan model.Change, error) {
	ch := make(chan model.Change, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}
