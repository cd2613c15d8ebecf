package kernel

import (
	"runtime"
	"runtime/debug"

	"github.com/golang/glog"
	"golang.org/x/exp/slices"

	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

// dispatch switches away from t back to the kernel context, which picks
// the next task. It returns when t is selected again.
func (k *Kernel) dispatch(t *tcb) {
	if !stackIntact(t) {
		k.fail(PanicStackOverflow, t, nil)
		runtime.Goexit()
	}
	k.current = nil
	if t.state == Stopped {
		// finish releases the task on the way out.
		runtime.Goexit()
	}
	glog.V(4).Infof("task[%d] %s", t.id, t.state)
	if !t.ctx.Switch(k.ctx) {
		runtime.Goexit()
	}
}

// trampoline is the body of a task context.
//
// Deferred calls in task code run when the task stops, and also when the
// processor halts or the task is removed while parked; in the latter cases
// they must not call into the kernel.
func (k *Kernel) trampoline(t *tcb) func() {
	return func() {
		defer k.finish(t)
		defer k.recoverTask(t)
		k.leave()
		t.entry(k)
	}
}

func (k *Kernel) recoverTask(t *tcb) {
	if r := recover(); r != nil {
		glog.Errorf("task[%d] %q panicked: %v\n%s", t.id, t.name, r, debug.Stack())
		k.fail(PanicTaskFault, t, r)
	}
}

// finish releases a task whose entry returned or which stopped itself, and
// hands the processor back to the kernel context.
func (k *Kernel) finish(t *tcb) {
	if t.released || port.Halted(k.cpu) {
		return
	}
	k.mask()
	if !stackIntact(t) {
		k.fail(PanicStackOverflow, t, nil)
		return
	}
	glog.V(4).Infof("task[%d] stopped", t.id)
	k.current = nil
	k.release(t)
	k.ctx.Restore()
}

// release frees the slot, stack and id of t.
func (k *Kernel) release(t *tcb) {
	if t.waitq != nil {
		t.waitq.remove(t)
	}
	t.state, t.wait = Stopped, waitNone
	t.released = true
	k.slots[t.slot] = nil
	if n := slices.Index(k.order, t.slot); n >= 0 {
		k.order = slices.Delete(k.order, n, n+1)
	}
	k.live--
	k.stackUsed -= len(t.stack)
	t.ctx.Release()
}

// Panic halts the kernel with a fatal code. Called from a task it never
// returns; Run returns a *PanicError carrying code.
func (k *Kernel) Panic(code PanicCode) {
	k.mask()
	t := k.current
	k.fail(code, t, nil)
	if t != nil {
		runtime.Goexit()
	}
}

func (k *Kernel) fail(code PanicCode, t *tcb, reason interface{}) {
	if k.fault == nil {
		k.fault = &PanicError{Code: code, Reason: reason}
		if t != nil {
			k.fault.Task = t.id
		}
		glog.Errorf("%v", k.fault)
	}
	k.cpu.Halt()
}
