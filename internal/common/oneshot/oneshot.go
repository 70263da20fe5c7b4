// Package oneshot provides a channel that carries exactly one value from one sender to one receiver.
//
// The sender either delivers a value with Send or gives up with Close; a receiver blocked in Recv observes
// ErrSenderDropped in the latter case. Neither side may be reused.
package oneshot

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrSenderDropped   = errors.New("oneshot: sender dropped without sending a value")
	ErrAlreadySent     = errors.New("oneshot: value already sent")
	ErrAlreadyReceived = errors.New("oneshot: value already received")
)

type Sender[T any] struct {
	ch   chan T
	once sync.Once
	sent atomic.Bool
}

type Receiver[T any] struct {
	ch       chan T
	received atomic.Bool
}

// New returns the two ends of a fresh channel.
func New[T any]() (*Sender[T], *Receiver[T]) {
	ch := make(chan T, 1)
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

// Send delivers v and closes the channel. It never blocks.
func (s *Sender[T]) Send(v T) error {
	err := ErrAlreadySent
	s.once.Do(func() {
		s.ch <- v
		s.sent.Store(true)
		close(s.ch)
		err = nil
	})
	return err
}

// Close drops the sender. If no value was sent the receiver observes ErrSenderDropped. Close after Send is a no-op,
// so it is safe to defer.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		close(s.ch)
	})
}

// Sent reports whether a value was delivered.
func (s *Sender[T]) Sent() bool {
	return s.sent.Load()
}

// Recv blocks until the sender either sends or is dropped.
func (r *Receiver[T]) Recv() (T, error) {
	var zero T
	if !r.received.CompareAndSwap(false, true) {
		return zero, ErrAlreadyReceived
	}
	v, ok := <-r.ch
	if !ok {
		return zero, ErrSenderDropped
	}
	return v, nil
}
