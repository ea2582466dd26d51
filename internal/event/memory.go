package event

import (
	"context"
	"sync"
	"time"
)

const retryDelay = 100 * time.Millisecond

// MemoryChannel is an in-process event channel used in development mode and
// tests. Delivery order follows publish order; an event whose handler fails
// is retried before the queue advances, mirroring the pending-entry
// semantics of the Redis backend.
type MemoryChannel struct {
	mu     sync.Mutex
	queue  []Event
	notify chan struct{}
}

// NewMemoryChannel constructs an in-memory channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{notify: make(chan struct{}, 1)}
}

// Publish enqueues the event.
func (c *MemoryChannel) Publish(_ context.Context, evt Event) error {
	c.mu.Lock()
	c.queue = append(c.queue, evt)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// Run drains the queue until ctx is cancelled. The head event is removed
// only after its handler succeeds.
func (c *MemoryChannel) Run(ctx context.Context, handle Handler) error {
	for {
		evt, ok := c.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.notify:
				continue
			}
		}

		if err := handle(ctx, evt); err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
				continue
			}
		}
		c.pop()
	}
}

// Pending reports the number of undelivered events. Test helper.
func (c *MemoryChannel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *MemoryChannel) peek() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return Event{}, false
	}
	return c.queue[0], true
}

func (c *MemoryChannel) pop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) > 0 {
		c.queue = c.queue[1:]
	}
}
