// Package event is an in-process dispatcher for domain events such as
// "order.placed". Listeners run inline with Fire or on a worker pool with
// FireAsync.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// New returns a bus. A nil pool makes FireAsync behave like Fire.
func New(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: make(map[string][]Handler), pool: pool}
}

// Listen registers handler for name.
func (b *Bus) Listen(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire calls every listener of name in registration order. A nil bus is a
// no-op.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	if b == nil {
		return
	}
	for _, h := range b.listeners(name) {
		h(ctx, payload)
	}
}

// FireAsync queues every listener on the pool. The context handed to
// listeners is detached from ctx's cancellation so they outlive the request.
// When the pool is full the listener runs inline.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	if b == nil {
		return
	}
	if b.pool == nil {
		b.Fire(ctx, name, payload)
		return
	}
	detached := context.WithoutCancel(ctx)
	for _, h := range b.listeners(name) {
		if err := b.pool.Submit(func() { h(detached, payload) }); err != nil {
			logger.WithCtx(ctx).Warn("event: running listener inline", "event", name, "error", err)
			h(detached, payload)
		}
	}
}

// Close waits for queued listeners to finish.
func (b *Bus) Close() {
	if b != nil && b.pool != nil {
		b.pool.Shutdown()
	}
}
