package engine

import "sync"

// feed is a multicast of values to subscribed callbacks. Subscribing returns
// a detach func; a detached callback is never invoked again, but detaching
// while a publish is in flight does not affect delivery of that event to
// callbacks already snapshotted. Delivery order is unspecified.
type feed[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

func (f *feed[T]) subscribe(fn func(T)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[int]func(T))
	}
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// publish delivers v to every callback subscribed at the time of the call,
// synchronously, before returning.
func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	fns := make([]func(T), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
