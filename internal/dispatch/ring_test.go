package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingProcessesInPublishOrderSingleProducer(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	ring := NewRing[int](16, HandlerFunc[int](func(event int) {
		mu.Lock()
		seen = append(seen, event)
		mu.Unlock()
	}))
	ring.Start()

	for i := 0; i < 100; i++ {
		ring.Publish(i)
	}

	require.NoError(t, ring.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 100)
	for i := 0; i < 100; i++ {
		assert.Equal(t, i, seen[i])
	}
}

func TestRingMultipleProducersAllDelivered(t *testing.T) {
	var count atomic.Int64

	ring := NewRing[int](64, HandlerFunc[int](func(event int) {
		count.Add(1)
	}))
	ring.Start()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				ring.Publish(i)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, ring.Shutdown(context.Background()))
	assert.Equal(t, int64(1600), count.Load())
}

func TestRingRejectsPublishAfterShutdown(t *testing.T) {
	ring := NewRing[int](8, HandlerFunc[int](func(event int) {}))
	ring.Start()
	require.NoError(t, ring.Shutdown(context.Background()))

	assert.False(t, ring.Publish(1))
}

func TestRingShutdownTimesOutIfHandlerStalls(t *testing.T) {
	release := make(chan struct{})
	ring := NewRing[int](2, HandlerFunc[int](func(event int) {
		<-release
	}))
	ring.Start()
	ring.Publish(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := ring.Shutdown(ctx)
	assert.ErrorIs(t, err, ErrShutdownTimeout)

	close(release)
}
