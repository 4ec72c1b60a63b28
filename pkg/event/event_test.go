package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/event"
	"github.com/shashiranjanraj/brewandco/pkg/workerpool"
	"github.com/stretchr/testify/assert"
)

func TestFireSync(t *testing.T) {
	defer event.Flush()

	var got []any
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, p) })
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, p) })

	event.Fire(context.Background(), "order.placed", 42)
	event.Fire(context.Background(), "other", 1)

	assert.Equal(t, []any{42, 42}, got)
}

func TestFireAsyncOnPool(t *testing.T) {
	defer event.Flush()

	pool := workerpool.New(2)
	defer pool.Shutdown()
	event.UsePool(pool)
	defer event.UsePool(nil)

	var mu sync.Mutex
	var got []string
	event.Listen("order.status_changed", func(_ context.Context, p any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, p.(string))
	})

	event.FireAsync(context.Background(), "order.status_changed", "ready")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "ready"
	}, time.Second, 5*time.Millisecond)
}
