// Package kernel provides a small priority scheduler for a single processor.
//
// Tasks are cooperative and optionally preempted by the tick. A task runs
// until it yields, blocks on a delay, a semaphore or a pipe, or, when
// preemption is enabled, until a tick makes an equal or higher priority task
// READY. Among READY tasks the smallest priority value runs first; equal
// priorities take turns in the order tasks were added.
//
// All kernel state lives in a Kernel and is only touched by the context that
// currently holds the processor, inside critical sections. Saving and
// switching contexts, interrupt masking and halting are supplied by a
// port.CPU, so the same scheduler runs on hardware and on the goroutine
// backed host port used by tests and simulations.
//
// Fatal conditions (stack overflow, corrupted task records, a panic in task
// code) halt the processor and make Run return a *PanicError. Recoverable
// conditions are returned as errors wrapping ErrResourceExhausted,
// ErrNotFound or ErrInvalidArgument.
package kernel
