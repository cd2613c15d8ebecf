package kernel

// TaskStatus describes one task.
type TaskStatus struct {
	ID        TaskID   `json:"id"`
	Name      string   `json:"name"`
	State     State    `json:"state"`
	Priority  Priority `json:"priority"`
	Delay     uint32   `json:"delay,omitempty"`
	StackSize int      `json:"stack_size"`
	StackUsed int      `json:"stack_used"`
	Switches  uint64   `json:"switches"`
}

// Status describes the kernel.
type Status struct {
	Ticks      uint64       `json:"ticks"`
	Current    TaskID       `json:"current"`
	Preemptive bool         `json:"preemptive"`
	StackUsed  int          `json:"stack_used"`
	Tasks      []TaskStatus `json:"tasks"`
}

// Running gets the number of tasks in RUNNING state.
func (s Status) Running() int {
	var n int
	for _, t := range s.Tasks {
		if t.State == Running {
			n++
		}
	}
	return n
}

// Task finds a task by id.
func (s Status) Task(id TaskID) (TaskStatus, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return TaskStatus{}, false
}

// Snapshot captures the kernel status. Call it from task code, or after
// Run returned.
func (k *Kernel) Snapshot() Status {
	k.enter()
	s := k.snapshot()
	k.leave()
	return s
}

func (k *Kernel) snapshot() Status {
	s := Status{
		Ticks:      k.ticks,
		Preemptive: k.preemptive,
		StackUsed:  k.stackUsed,
		Tasks:      make([]TaskStatus, 0, len(k.order)),
	}
	if k.current != nil {
		s.Current = k.current.id
	}
	for _, n := range k.order {
		t := k.slots[n]
		s.Tasks = append(s.Tasks, TaskStatus{
			ID:        t.id,
			Name:      t.name,
			State:     t.state,
			Priority:  t.priority,
			Delay:     t.delay,
			StackSize: len(t.stack),
			StackUsed: stackHighWater(t),
			Switches:  t.switches,
		})
	}
	return s
}
