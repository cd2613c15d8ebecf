package kernel

import "github.com/gammazero/deque"

// waitQueue is a FIFO of blocked tasks.
type waitQueue struct {
	q deque.Deque[*tcb]
}

func (w *waitQueue) push(t *tcb) {
	t.waitq = w
	w.q.PushBack(t)
}

func (w *waitQueue) pop() *tcb {
	if w.q.Len() == 0 {
		return nil
	}
	t := w.q.PopFront()
	t.waitq = nil
	return t
}

func (w *waitQueue) remove(t *tcb) {
	for n := w.q.Len(); n > 0; n-- {
		if u := w.q.PopFront(); u != t {
			w.q.PushBack(u)
		}
	}
	t.waitq = nil
}

func (w *waitQueue) len() int {
	return w.q.Len()
}
