package event_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	bus := event.New(nil)
	var got []string
	bus.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	bus.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	bus.Listen("other", func(context.Context, any) { got = append(got, "other") })

	bus.Fire(context.Background(), "order.placed", "7")
	assert.Equal(t, []string{"a:7", "b:7"}, got)
}

func TestFireAsyncOutlivesCancelledContext(t *testing.T) {
	bus := event.New(workerpool.New(2))

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup
	wg.Add(3)
	bus.Listen("order.placed", func(ctx context.Context, _ any) {
		defer wg.Done()
		mu.Lock()
		errs = append(errs, ctx.Err())
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		bus.FireAsync(ctx, "order.placed", i)
	}
	wg.Wait()
	bus.Close()

	assert.Equal(t, []error{nil, nil, nil}, errs)
}

func TestNilBusIsNoop(t *testing.T) {
	var bus *event.Bus
	bus.Fire(context.Background(), "x", nil)
	bus.FireAsync(context.Background(), "x", nil)
	bus.Close()
}
