package kernel

import (
	"golang.org/x/exp/slices"
)

// schedule picks the READY task with the smallest priority value, round
// robin among equals in insertion order. It returns nil when nothing is
// READY.
func (k *Kernel) schedule() *tcb {
	k.drainEvents()
	var best *tcb
	for _, n := range k.order {
		t := k.slots[n]
		if t == nil || t.slot != n || t.state > Suspended {
			k.fail(PanicCorruptTask, t, nil)
			return nil
		}
		if t.state == Ready && (best == nil || t.priority < best.priority) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	prio, last := best.priority, k.rr[best.priority]
	start := slices.IndexFunc(k.order, func(n int) bool { return k.slots[n].id == last }) + 1
	for i := range k.order {
		t := k.slots[k.order[(start+i)%len(k.order)]]
		if t.state == Ready && t.priority == prio {
			best = t
			break
		}
	}
	k.rr[prio] = best.id
	return best
}

// drainEvents turns pending timer events into READY tasks.
func (k *Kernel) drainEvents() {
	for k.events.Len() > 0 {
		ev := k.events.PopFront()
		if t := k.lookup(ev.id); t != nil && t.wait == ev.wait {
			k.wake(t)
		}
	}
}

// wake completes the wait of t. A suspended task stays suspended and
// becomes READY on resume.
func (k *Kernel) wake(t *tcb) {
	t.wait, t.delay = waitNone, 0
	switch t.state {
	case Blocked:
		t.state = Ready
		k.preempt(t)
	case Suspended:
		t.resume = Ready
	}
}

// preempt requests a reschedule if t should run before the current task.
func (k *Kernel) preempt(t *tcb) {
	if k.preemptive && k.current != nil && t != k.current && t.priority < k.current.priority {
		k.wakeResched = true
	}
}

// preemptionDue reports whether the running task t must give up the
// processor: a tick lets an equal or higher priority READY task in, a wake
// only a higher one.
func (k *Kernel) preemptionDue(t *tcb) bool {
	tick, wake := k.tickResched, k.wakeResched
	k.tickResched, k.wakeResched = false, false
	if !k.preemptive || !(tick || wake) {
		return false
	}
	k.drainEvents()
	for _, n := range k.order {
		u := k.slots[n]
		if u == t || u.state != Ready {
			continue
		}
		if u.priority < t.priority || (tick && u.priority == t.priority) {
			return true
		}
	}
	return false
}

func (k *Kernel) timeWaiters() bool {
	for _, n := range k.order {
		if w := k.slots[n].wait; w == waitDelay || w == waitTick {
			return true
		}
	}
	return false
}
