package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

type subscription struct {
	id uint64
	fn func(context.Context, any)
}

// Bus is a simple in-process event dispatcher. Handlers run synchronously on
// the publishing goroutine and must be safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[reflect.Type][]subscription
}

// New creates a new Bus.
func New() *Bus { return &Bus{handlers: make(map[reflect.Type][]subscription)} }

func (b *Bus) subscribe(t reflect.Type, fn func(context.Context, any)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			hs := b.handlers[t]
			for i, s := range hs {
				if s.id == id {
					hs = append(hs[:i:i], hs[i+1:]...)
					break
				}
			}
			if len(hs) == 0 {
				delete(b.handlers, t)
			} else {
				b.handlers[t] = hs
			}
		})
	}
}

// emit dispatches e to all handlers of its dynamic type.
func (b *Bus) emit(ctx context.Context, e any) {
	if b == nil {
		return
	}
	t := reflect.TypeOf(e)
	b.mu.RLock()
	hs := b.handlers[t]
	if len(hs) == 0 {
		b.mu.RUnlock()
		return
	}
	copied := append([]subscription(nil), hs...)
	b.mu.RUnlock()
	for _, s := range copied {
		s.fn(ctx, e)
	}
}

// On registers h with b directly, without going through the global bus.
func On[T any](b *Bus, h Handler[T]) (unsubscribe func()) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return b.subscribe(t, func(ctx context.Context, v any) { h(ctx, v.(T)) })
}

// Emit sends e through b.
func Emit[T any](ctx context.Context, b *Bus, e T) { b.emit(ctx, e) }

var global atomic.Pointer[Bus]

// Use sets the global bus. Passing nil disables event publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h with the global bus.
func Subscribe[T any](h Handler[T]) (unsubscribe func()) {
	if b := global.Load(); b != nil {
		return On(b, h)
	}
	return func() {}
}

// Publish sends e through the global bus.
func Publish[T any](ctx context.Context, e T) {
	if b := global.Load(); b != nil {
		b.emit(ctx, e)
	}
}
