// Package dispatch provides the engine's single linearization point: a
// multi-producer, single-consumer ring buffer. Every Submit/Cancel/EndOfDay
// request is published onto the ring and drained by exactly one consumer
// goroutine, so book mutation never needs a mutex — callers only contend on
// the lock-free producer-sequence CAS.
//
// Adapted from a disruptor-pattern ring buffer: sequence counters replace a
// channel so producers never block on consumer scheduling, only on buffer
// capacity.
package dispatch

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrShutdownTimeout is returned by Shutdown when ctx expires before the
// consumer has drained every published entry.
var ErrShutdownTimeout = errors.New("dispatch: shutdown timeout")

// Handler processes one dispatched event on the consumer goroutine. OnEvent
// is the engine's linearization point: book mutation, order-index updates,
// and read-model publication all happen inside it, serialized by
// construction.
type Handler[T any] interface {
	OnEvent(event T)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[T any] func(event T)

// OnEvent implements Handler.
func (f HandlerFunc[T]) OnEvent(event T) { f(event) }

// Ring is a fixed-capacity MPSC ring buffer. Capacity must be a power of two.
type Ring[T any] struct {
	_                [56]byte
	producerSequence atomic.Int64
	_                [56]byte
	consumerSequence atomic.Int64
	_                [56]byte

	buffer     []T
	published  []int64
	bufferMask int64
	capacity   int64

	handler Handler[T]

	isShutdown atomic.Bool
	started    atomic.Bool
}

// NewRing builds a Ring with the given power-of-two capacity and consumer
// handler. It panics if capacity is not a power of two.
func NewRing[T any](capacity int64, handler Handler[T]) *Ring[T] {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("dispatch: capacity must be a power of 2")
	}

	r := &Ring[T]{
		buffer:     make([]T, capacity),
		published:  make([]int64, capacity),
		capacity:   capacity,
		bufferMask: capacity - 1,
		handler:    handler,
	}
	r.producerSequence.Store(-1)
	r.consumerSequence.Store(-1)
	for i := range r.published {
		r.published[i] = -1
	}
	return r
}

// Publish enqueues event for processing. Safe to call concurrently from many
// goroutines. Blocks (spinning) only if the ring is full, i.e. the consumer
// has fallen a full capacity behind. Returns false if the ring has been shut
// down.
func (r *Ring[T]) Publish(event T) bool {
	if r.isShutdown.Load() {
		return false
	}

	var next int64
	for {
		cur := r.producerSequence.Load()
		next = cur + 1

		wrapPoint := next - r.capacity
		if wrapPoint > r.consumerSequence.Load() {
			runtime.Gosched()
			continue
		}

		if r.producerSequence.CompareAndSwap(cur, next) {
			break
		}
		runtime.Gosched()
	}

	index := next & r.bufferMask
	r.buffer[index] = event
	atomic.StoreInt64(&r.published[index], next)
	return true
}

// Start launches the consumer goroutine. Start must be called at most once.
func (r *Ring[T]) Start() {
	if r.started.CompareAndSwap(false, true) {
		go r.consumerLoop()
	}
}

// Shutdown stops accepting new Publish calls and waits for the consumer to
// drain every event already published, or until ctx is done.
func (r *Ring[T]) Shutdown(ctx context.Context) error {
	r.isShutdown.Store(true)

	for {
		select {
		case <-ctx.Done():
			return ErrShutdownTimeout
		default:
			if r.consumerSequence.Load() >= r.producerSequence.Load() {
				return nil
			}
			runtime.Gosched()
		}
	}
}

// Pending reports how many published events the consumer has not yet
// processed. For monitoring only.
func (r *Ring[T]) Pending() int64 {
	return r.producerSequence.Load() - r.consumerSequence.Load()
}

func (r *Ring[T]) consumerLoop() {
	next := r.consumerSequence.Load() + 1

	for {
		available := r.producerSequence.Load()

		if r.isShutdown.Load() {
			r.drain(next)
			return
		}

		processed := false
		for next <= available {
			index := next & r.bufferMask
			for atomic.LoadInt64(&r.published[index]) != next {
				runtime.Gosched()
			}

			r.handler.OnEvent(r.buffer[index])
			r.consumerSequence.Store(next)
			next++
			processed = true
		}

		if !processed {
			runtime.Gosched()
		}
	}
}

func (r *Ring[T]) drain(next int64) {
	available := r.producerSequence.Load()
	for next <= available {
		index := next & r.bufferMask
		for atomic.LoadInt64(&r.published[index]) != next {
			runtime.Gosched()
		}
		r.handler.OnEvent(r.buffer[index])
		r.consumerSequence.Store(next)
		next++
	}
}
