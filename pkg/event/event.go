// Package event is an in-process event dispatcher. Listeners registered
// with Listen receive every payload fired under their event name.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/workerpool"
)

// Handler receives an event payload. ctx is detached from the request that
// fired the event but keeps its logger.
type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// UsePool runs FireAsync listeners on p instead of bare goroutines.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

func snapshot(event string) ([]Handler, *workerpool.Pool) {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs, pool
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(ctx context.Context, event string, payload any) {
	hs, _ := snapshot(event)
	for _, h := range hs {
		h(ctx, payload)
	}
}

// FireAsync dispatches the event to every listener and returns immediately.
// When the pool is full the listener is dropped and logged.
func FireAsync(ctx context.Context, event string, payload any) {
	hs, p := snapshot(event)
	if len(hs) == 0 {
		return
	}

	detached := logger.InjectLogger(context.Background(), logger.WithCtx(ctx))
	for _, h := range hs {
		h := h
		task := func() { h(detached, payload) }
		if p == nil {
			go task()
			continue
		}
		if err := p.Submit(task); err != nil {
			logger.WithCtx(ctx).Warn("event: listener dropped", "event", event, "error", err)
		}
	}
}

// Flush removes all listeners.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
