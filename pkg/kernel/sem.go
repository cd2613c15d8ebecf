package kernel

import (
	"fmt"

	"github.com/golang/glog"
)

// Semaphore is a counting semaphore with a FIFO of waiting tasks.
//
// Signal hands the unit directly to the oldest waiter if any, otherwise the
// count grows up to max; signals beyond max are dropped (saturated).
type Semaphore struct {
	k       *Kernel
	count   int
	max     int
	waiters waitQueue
}

// NewSemaphore creates a semaphore with count initial, bounded by max.
func (k *Kernel) NewSemaphore(max, initial int) (*Semaphore, error) {
	if max < 1 || initial < 0 || initial > max {
		return nil, fmt.Errorf("%w: semaphore max=%d initial=%d", ErrInvalidArgument, max, initial)
	}
	return &Semaphore{k: k, count: initial, max: max}, nil
}

// MustNewSemaphore creates a semaphore and panics on invalid bounds.
func (k *Kernel) MustNewSemaphore(max, initial int) *Semaphore {
	s, err := k.NewSemaphore(max, initial)
	if err != nil {
		panic(err)
	}
	return s
}

// Wait takes a unit, blocking the calling task while the count is 0.
func (s *Semaphore) Wait() {
	k := s.k
	k.enter()
	if s.count > 0 {
		s.count--
	} else if t := k.self(); t != nil {
		glog.V(2).Infof("task[%d] waits on semaphore", t.id)
		k.block(t, waitSem)
		s.waiters.push(t)
	}
	k.leave()
}

// TryWait takes a unit if available without blocking.
func (s *Semaphore) TryWait() bool {
	k := s.k
	k.enter()
	ok := s.count > 0
	if ok {
		s.count--
	}
	k.leave()
	return ok
}

// Signal releases a unit.
func (s *Semaphore) Signal() {
	k := s.k
	k.enter()
	if t := s.waiters.pop(); t != nil {
		glog.V(2).Infof("semaphore hands over to task[%d]", t.id)
		k.wake(t)
	} else if s.count < s.max {
		s.count++
	}
	k.leave()
}

// Count gets the current count.
func (s *Semaphore) Count() int {
	s.k.enter()
	n := s.count
	s.k.leave()
	return n
}

// Max gets the upper bound of the count.
func (s *Semaphore) Max() int {
	return s.max
}

// Waiting gets the number of blocked tasks.
func (s *Semaphore) Waiting() int {
	s.k.enter()
	n := s.waiters.len()
	s.k.leave()
	return n
}
