// Package handshake implements the ready/done semaphore handoff between one
// producer task and one consumer task.
package handshake

import (
	"github.com/robotalks/rtk.go/pkg/kernel"
)

// Slot holds one data item guarded by two semaphores: ready is signaled by
// the producer once the item is stored, done by the consumer once it has
// finished with it. The producer never overwrites an item the consumer has
// not released, and the consumer never sees the same item twice.
type Slot[T any] struct {
	value T
	ready *kernel.Semaphore
	done  *kernel.Semaphore
}

// NewSlot creates an empty slot.
func NewSlot[T any](k *kernel.Kernel) *Slot[T] {
	return &Slot[T]{
		ready: k.MustNewSemaphore(1, 0),
		done:  k.MustNewSemaphore(1, 1),
	}
}

// Put stores v, blocking until the previous item is released.
func (s *Slot[T]) Put(v T) {
	s.done.Wait()
	s.value = v
	s.ready.Signal()
}

// PutFunc fills the slot in place, after the previous item is released.
func (s *Slot[T]) PutFunc(fn func(*T)) {
	s.done.Wait()
	fn(&s.value)
	s.ready.Signal()
}

// Take blocks until an item is available, and releases it immediately.
func (s *Slot[T]) Take() T {
	s.ready.Wait()
	v := s.value
	s.done.Signal()
	return v
}

// TakeFunc blocks until an item is available and holds it while fn runs.
func (s *Slot[T]) TakeFunc(fn func(T)) {
	s.ready.Wait()
	fn(s.value)
	s.done.Signal()
}

// Pending reports whether an item is stored and not yet taken.
func (s *Slot[T]) Pending() bool {
	return s.ready.Count() > 0
}
