package kernel

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

// TaskID identifies a live task. 0 is never assigned.
type TaskID uint16

// TaskFunc is the entry of a task. The task stops when it returns.
type TaskFunc func(k *Kernel)

// State is the lifecycle state of a task.
type State uint8

// Task states.
const (
	Stopped State = iota
	Ready
	Running
	Blocked
	Suspended
)

var stateNames = [...]string{"STOPPED", "READY", "RUNNING", "BLOCKED", "SUSPENDED"}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("STATE(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Priority packs a scheduling class and a level in the high and low byte.
// Smaller values take precedence.
type Priority uint16

// Predefined priorities.
const (
	PriorityCritical    Priority = 0x0101
	PriorityRealtime    Priority = 0x0303
	PriorityHigh        Priority = 0x0707
	PriorityAboveNormal Priority = 0x0f0f
	PriorityNormal      Priority = 0x1f1f
	PriorityBelowNormal Priority = 0x3f3f
	PriorityLow         Priority = 0x7f7f
)

var priorityNames = map[Priority]string{
	PriorityCritical:    "critical",
	PriorityRealtime:    "realtime",
	PriorityHigh:        "high",
	PriorityAboveNormal: "above-normal",
	PriorityNormal:      "normal",
	PriorityBelowNormal: "below-normal",
	PriorityLow:         "low",
}

// NewPriority composes a priority.
func NewPriority(class, level uint8) Priority {
	return Priority(class)<<8 | Priority(level)
}

// ParsePriority parses a predefined name or a number.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: priority %q", ErrInvalidArgument, s)
	}
	return Priority(v), nil
}

// Class gets the scheduling class.
func (p Priority) Class() uint8 { return uint8(p >> 8) }

// Level gets the level within the class.
func (p Priority) Level() uint8 { return uint8(p) }

// String implements fmt.Stringer.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("%#04x", uint16(p))
}

// TaskOptions are optional attributes of a new task.
type TaskOptions struct {
	Name string
	// StackSize defaults to Config.DefaultStackSize when 0.
	StackSize int
	// Priority defaults to PriorityNormal when 0.
	Priority Priority
}

type waitReason uint8

const (
	waitNone waitReason = iota
	waitDelay
	waitTick
	waitSem
	waitPipe
)

// tcb is the task control record.
type tcb struct {
	entry TaskFunc
	name  string
	ctx   port.Context
	stack []byte
	// usable is the part of stack below the guard band.
	usable int

	id       TaskID
	slot     int
	delay    uint32
	priority Priority
	state    State
	// resume is the state restored when a suspended task resumes.
	resume State
	wait   waitReason
	waitq  *waitQueue

	suspendReq bool
	stopReq    bool
	released   bool
	switches   uint64
}

// Add creates a READY task with the default priority.
func (k *Kernel) Add(entry TaskFunc, stackSize int) (TaskID, error) {
	return k.AddWith(entry, TaskOptions{StackSize: stackSize})
}

// AddWith creates a READY task.
func (k *Kernel) AddWith(entry TaskFunc, opts TaskOptions) (TaskID, error) {
	if entry == nil {
		return 0, fmt.Errorf("%w: nil task entry", ErrInvalidArgument)
	}
	size := opts.StackSize
	if size == 0 {
		size = k.conf.DefaultStackSize
	}
	if size <= k.conf.GuardSize {
		return 0, fmt.Errorf("%w: stack size %d not above guard band %d", ErrInvalidArgument, size, k.conf.GuardSize)
	}
	prio := opts.Priority
	if prio == 0 {
		prio = PriorityNormal
	}
	k.enter()
	id, err := k.add(entry, opts.Name, size, prio)
	k.leave()
	return id, err
}

func (k *Kernel) add(entry TaskFunc, name string, size int, prio Priority) (TaskID, error) {
	if k.live >= k.conf.MaxTasks {
		return 0, fmt.Errorf("%w: all %d task slots in use", ErrResourceExhausted, k.conf.MaxTasks)
	}
	if k.stackUsed+size > k.conf.StackMemory {
		return 0, fmt.Errorf("%w: %d of %d stack bytes in use", ErrResourceExhausted, k.stackUsed, k.conf.StackMemory)
	}
	id := k.allocID()
	if id == 0 {
		return 0, fmt.Errorf("%w: task ids", ErrResourceExhausted)
	}
	t := &tcb{
		entry:    entry,
		name:     name,
		id:       id,
		priority: prio,
		state:    Ready,
	}
	if t.name == "" {
		t.name = fmt.Sprintf("task%d", id)
	}
	t.stack, t.usable = newStack(size, k.conf.GuardSize)
	t.slot = k.allocSlot(t)
	k.order = append(k.order, t.slot)
	k.live++
	k.stackUsed += size
	t.ctx = k.cpu.NewContext(k.trampoline(t))
	k.preempt(t)
	glog.V(4).Infof("task[%d] %q added, priority %s, stack %d", id, t.name, prio, size)
	return id, nil
}

func (k *Kernel) allocID() TaskID {
	for n := 0; n <= 0xffff; n++ {
		id := k.idNext
		if k.idNext++; k.idNext == 0 {
			k.idNext = 1
		}
		if id != 0 && k.lookup(id) == nil {
			return id
		}
	}
	return 0
}

func (k *Kernel) allocSlot(t *tcb) int {
	for n, s := range k.slots {
		if s == nil {
			k.slots[n] = t
			return n
		}
	}
	k.slots = append(k.slots, t)
	return len(k.slots) - 1
}

func (k *Kernel) lookup(id TaskID) *tcb {
	for _, n := range k.order {
		if t := k.slots[n]; t != nil && t.id == id {
			return t
		}
	}
	return nil
}

func (k *Kernel) mustLookup(id TaskID) (*tcb, error) {
	if t := k.lookup(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Remove stops a task and releases its stack and id.
// Removing the calling task terminates it; the call doesn't return.
func (k *Kernel) Remove(id TaskID) error {
	k.enter()
	err := k.remove(id)
	k.leave()
	return err
}

func (k *Kernel) remove(id TaskID) error {
	t, err := k.mustLookup(id)
	if err != nil {
		return err
	}
	if t == k.current {
		t.stopReq = true
		return nil
	}
	glog.V(4).Infof("task[%d] removed", id)
	k.release(t)
	return nil
}

// Yield gives up the rest of the time slot.
func (k *Kernel) Yield() {
	k.enter()
	if t := k.self(); t != nil {
		t.state = Ready
	}
	k.leave()
}

// Delay blocks the calling task for a number of ticks. Delay(0) yields.
func (k *Kernel) Delay(ticks uint32) {
	if ticks == 0 {
		k.Yield()
		return
	}
	k.enter()
	if t := k.self(); t != nil {
		t.delay = ticks
		k.block(t, waitDelay)
	}
	k.leave()
}

// Wfi blocks the calling task until the next tick.
func (k *Kernel) Wfi() {
	k.enter()
	if t := k.self(); t != nil {
		k.block(t, waitTick)
	}
	k.leave()
}

// Suspend parks a task until Resume, whatever it was waiting for.
func (k *Kernel) Suspend(id TaskID) error {
	k.enter()
	err := k.suspend(id)
	k.leave()
	return err
}

func (k *Kernel) suspend(id TaskID) error {
	t, err := k.mustLookup(id)
	if err != nil {
		return err
	}
	if t == k.current {
		t.suspendReq = true
		return nil
	}
	if t.state != Suspended {
		t.resume, t.state = t.state, Suspended
	}
	return nil
}

// Resume returns a suspended task to the state it was suspended in,
// or READY if what it waited for happened meanwhile.
func (k *Kernel) Resume(id TaskID) error {
	k.enter()
	err := k.resumeTask(id)
	k.leave()
	return err
}

func (k *Kernel) resumeTask(id TaskID) error {
	t, err := k.mustLookup(id)
	if err != nil {
		return err
	}
	t.suspendReq = false
	if t.state == Suspended {
		t.state = t.resume
		if t.state == Ready {
			k.preempt(t)
		}
	}
	return nil
}

// SetPriority changes the priority of a task from the next scheduling decision.
func (k *Kernel) SetPriority(id TaskID, p Priority) error {
	k.enter()
	err := k.setPriority(id, p)
	k.leave()
	return err
}

func (k *Kernel) setPriority(id TaskID, p Priority) error {
	if p == 0 {
		return fmt.Errorf("%w: priority 0", ErrInvalidArgument)
	}
	t, err := k.mustLookup(id)
	if err != nil {
		return err
	}
	t.priority = p
	if k.preemptive && k.current != nil {
		k.wakeResched = true
	}
	return nil
}

// PriorityOf gets the priority of a task.
func (k *Kernel) PriorityOf(id TaskID) (Priority, error) {
	var p Priority
	k.enter()
	t, err := k.mustLookup(id)
	if err == nil {
		p = t.priority
	}
	k.leave()
	return p, err
}

// Stack returns the usable stack region of the calling task as scratch
// memory. Writing past its length corrupts the guard band and is reported
// as a stack overflow on the next switch.
func (k *Kernel) Stack() []byte {
	k.enter()
	t := k.self()
	k.leave()
	if t == nil {
		return nil
	}
	return t.stack[:t.usable]
}

func (k *Kernel) block(t *tcb, reason waitReason) {
	t.state = Blocked
	t.wait = reason
}

// self gets the calling task. Outside a task it's fatal.
func (k *Kernel) self() *tcb {
	if k.current == nil {
		k.fail(PanicInvalidContext, nil, nil)
	}
	return k.current
}
