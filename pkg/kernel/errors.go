package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceExhausted indicates no free task slot or stack memory.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrNotFound indicates the task id doesn't name a live task.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidArgument indicates malformed arguments, e.g. semaphore bounds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrHalted indicates the processor halted before a request completed.
	ErrHalted = errors.New("kernel halted")
)

// PanicCode identifies a fatal kernel condition.
type PanicCode int

// Panic codes.
const (
	// PanicNoTasks is raised when the scheduler starts without tasks.
	PanicNoTasks PanicCode = iota + 1
	// PanicStackOverflow is raised when a task's guard band is corrupted.
	PanicStackOverflow
	// PanicCorruptTask is raised when a task record is inconsistent.
	PanicCorruptTask
	// PanicTaskFault is raised when task code panics.
	PanicTaskFault
	// PanicInvalidContext is raised when a task-only call is made outside a task.
	PanicInvalidContext
	// PanicApplication is the first code free for applications.
	PanicApplication PanicCode = 0x100
)

var panicNames = map[PanicCode]string{
	PanicNoTasks:        "no tasks",
	PanicStackOverflow:  "stack overflow",
	PanicCorruptTask:    "corrupt task",
	PanicTaskFault:      "task fault",
	PanicInvalidContext: "invalid context",
}

// String implements fmt.Stringer.
func (c PanicCode) String() string {
	if name, ok := panicNames[c]; ok {
		return name
	}
	if c >= PanicApplication {
		return fmt.Sprintf("application(%#x)", int(c))
	}
	return fmt.Sprintf("panic(%d)", int(c))
}

// PanicError is returned by Run after a fatal condition halted the kernel.
type PanicError struct {
	Code PanicCode
	// Task is the task running when the condition was detected, 0 if none.
	Task TaskID
	// Reason carries the recovered value for PanicTaskFault.
	Reason interface{}
}

// Error implements error.
func (e *PanicError) Error() string {
	msg := fmt.Sprintf("kernel panic: %s", e.Code)
	if e.Task != 0 {
		msg += fmt.Sprintf(" in task %d", e.Task)
	}
	if e.Reason != nil {
		msg += fmt.Sprintf(": %v", e.Reason)
	}
	return msg
}
