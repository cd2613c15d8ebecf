package kernel

import (
	"runtime"

	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

// enter opens a critical section. Pending interrupts are serviced first,
// then masked when preemptive. Nesting simply re-masks.
func (k *Kernel) enter() {
	k.cpu.Service()
	k.mask()
}

func (k *Kernel) mask() {
	if k.preemptive {
		k.cpu.Disable()
	}
}

func (k *Kernel) unmask() {
	if k.preemptive {
		k.cpu.Enable()
	}
}

// leave closes a critical section and is the dispatch point of every kernel
// call: when the calling task is no longer RUNNING, or a preemption is due,
// it switches away and returns once the task runs again.
// A blocking call must complete its state change and wait queue insertion
// before calling leave.
func (k *Kernel) leave() {
	for {
		k.unmask()
		t := k.current
		if t == nil {
			return
		}
		if port.Halted(k.cpu) {
			runtime.Goexit()
		}
		k.applyRequests(t)
		if t.state == Running {
			if !k.preemptionDue(t) {
				return
			}
			t.state = Ready
		}
		k.mask()
		k.dispatch(t)
	}
}

// applyRequests applies suspend and stop requests posted against the
// running task, e.g. from an interrupt.
func (k *Kernel) applyRequests(t *tcb) {
	if t.stopReq {
		t.state = Stopped
		return
	}
	if t.suspendReq {
		t.suspendReq = false
		if t.state != Suspended {
			t.resume, t.state = t.state, Suspended
			if t.resume == Running {
				t.resume = Ready
			}
		}
	}
}
