package kernel

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
	"github.com/golang/glog"

	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

type event struct {
	id   TaskID
	wait waitReason
}

// Kernel is the kernel control block. Every kernel operation is a method on
// it; there is no global kernel state.
//
// Task operations must be called from task code, i.e. from a TaskFunc or
// what it calls. Other goroutines use the Remote methods and Tick.
type Kernel struct {
	conf *Config
	cpu  port.CPU
	ctx  port.Context

	// slots is the task arena, indexed by tcb.slot.
	slots []*tcb
	// order lists occupied slots in insertion order.
	order     []int
	current   *tcb
	live      int
	stackUsed int
	idNext    TaskID
	// rr remembers the task last selected at each priority.
	rr     map[Priority]TaskID
	events deque.Deque[event]
	ticks  uint64

	preemptive  bool
	tickResched bool
	wakeResched bool
	fault       *PanicError

	reqLock  sync.Mutex
	requests []*request
}

// New creates a kernel on cpu. conf may be nil for defaults.
func New(cpu port.CPU, conf *Config) *Kernel {
	if conf == nil {
		conf = NewConfig()
	}
	k := &Kernel{
		conf:       conf,
		cpu:        cpu,
		idNext:     1,
		rr:         make(map[Priority]TaskID),
		preemptive: conf.Preemptive,
	}
	cpu.SetHandler(k.isr)
	return k
}

// NewHost creates a kernel on a goroutine backed processor.
func NewHost(conf *Config) *Kernel {
	return New(port.NewHost(), conf)
}

// Name implements framework.Named.
func (k *Kernel) Name() string {
	return "kernel"
}

// Start runs appMain once to register the initial tasks, then runs the
// scheduler. The return value of appMain selects preemptive scheduling.
func (k *Kernel) Start(ctx context.Context, appMain func(*Kernel) bool) error {
	k.preemptive = appMain(k)
	return k.Run(ctx)
}

// Run runs the scheduler loop on the calling goroutine. It returns nil
// once every task stopped, a *PanicError after a fatal condition, or the
// context error when ctx is done.
func (k *Kernel) Run(ctx context.Context) error {
	k.ctx = k.cpu.Bootstrap()
	stopCh := make(chan struct{})
	defer close(stopCh)
	go func() {
		select {
		case <-ctx.Done():
			k.cpu.Halt()
		case <-stopCh:
		}
	}()

	glog.Infof("kernel started: %d tasks, preemptive=%v", k.live, k.preemptive)
	if k.live == 0 {
		k.fail(PanicNoTasks, nil, nil)
	}
	k.loop()
	k.cpu.Halt()
	k.cpu.Join()
	k.current = nil

	if k.fault != nil {
		return k.fault
	}
	if err := ctx.Err(); err != nil {
		glog.Infof("kernel stopped: %v", err)
		return err
	}
	glog.Info("kernel stopped: all tasks finished")
	return nil
}

func (k *Kernel) loop() {
	for {
		k.unmask()
		k.enter()
		if k.fault != nil || k.live == 0 {
			return
		}
		t := k.schedule()
		if k.fault != nil {
			return
		}
		if t == nil {
			if k.conf.VirtualTime && k.timeWaiters() {
				k.cpu.Raise(port.IRQTick)
				continue
			}
			if !k.cpu.Wait() {
				return
			}
			continue
		}
		k.current = t
		t.state = Running
		t.switches++
		// a fresh dispatch settles any pending reschedule.
		k.tickResched, k.wakeResched = false, false
		if !k.ctx.Switch(t.ctx) {
			return
		}
	}
}

func (k *Kernel) isr(irq port.IRQ) {
	switch irq {
	case port.IRQTick:
		k.tick()
	case port.IRQEvent:
		k.serviceRequests()
	}
}

// Preemptive reports whether the tick may preempt tasks.
func (k *Kernel) Preemptive() bool {
	return k.preemptive
}

// ID gets the id of the calling task, 0 outside tasks.
func (k *Kernel) ID() TaskID {
	var id TaskID
	k.enter()
	if k.current != nil {
		id = k.current.id
	}
	k.leave()
	return id
}

// Count gets the number of live tasks.
func (k *Kernel) Count() int {
	k.enter()
	n := k.live
	k.leave()
	return n
}

// Ticks gets the tick counter.
func (k *Kernel) Ticks() uint64 {
	k.enter()
	n := k.ticks
	k.leave()
	return n
}
