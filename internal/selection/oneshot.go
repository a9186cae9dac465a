package selection

import "sync"

// Reply is the sending half of a Oneshot handed to a dialog.
type Reply[T any] interface {
	// Send delivers value. Only the first Send or Close takes effect; it
	// reports whether this call was that one.
	Send(value T) bool
	// Close ends the exchange without a value.
	Close() bool
}

// Oneshot carries at most one value from a dialog callback to the waiting
// caller. The receiving side never blocks forever: after Close it observes a
// closed channel without a value.
type Oneshot[T any] struct {
	once    sync.Once
	channel chan T
}

func NewOneshot[T any]() *Oneshot[T] {
	return &Oneshot[T]{channel: make(chan T, 1)}
}

func (oneshot *Oneshot[T]) Send(value T) bool {
	sent := false
	oneshot.once.Do(func() {
		oneshot.channel <- value
		close(oneshot.channel)
		sent = true
	})
	return sent
}

func (oneshot *Oneshot[T]) Close() bool {
	closed := false
	oneshot.once.Do(func() {
		close(oneshot.channel)
		closed = true
	})
	return closed
}

// Receive yields the delivered value once; ok is false when the Oneshot was
// closed without one.
func (oneshot *Oneshot[T]) Receive() <-chan T { return oneshot.channel }
