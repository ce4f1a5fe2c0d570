package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

type Broker interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers every published event to fn until ctx is cancelled.
	Subscribe(ctx context.Context, fn func(Event)) error
}

// RedisBroker fans events out through Redis pub/sub so every node sees them.
// Each chat channel maps onto the Redis channel prefix+name.
type RedisBroker struct {
	rdb    *redis.Client
	prefix string
	log    *log.Logger
}

func NewRedisBroker(rdb *redis.Client, prefix string, logger *log.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, prefix: prefix, log: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.prefix+ev.Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, fn func(Event)) error {
	pubsub := b.rdb.PSubscribe(ctx, b.prefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warnf("drop malformed event on %s: %v", msg.Channel, err)
				continue
			}
			fn(ev)
		}
	}
}

// LocalBroker delivers events in-process, synchronously, to every subscriber.
type LocalBroker struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[int]func(Event))}
}

func (b *LocalBroker) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	subs := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, fn func(Event)) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
	return nil
}

// Subscribers reports how many subscriptions are active.
func (b *LocalBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
