// Package port defines the narrow processor boundary the kernel runs on.
//
// A port supplies saved execution contexts, interrupt masking, an interrupt
// line with pending requests, wait-for-interrupt and halt. The kernel never
// touches registers or stacks directly; everything architecture specific
// lives behind CPU and Context.
package port

// IRQ identifies an interrupt line.
type IRQ int

// Interrupt lines known to the kernel.
const (
	// IRQTick is the periodic timer interrupt.
	IRQTick IRQ = iota
	// IRQEvent is raised when requests from outside the kernel are posted.
	IRQEvent

	NumIRQs
)

// String implements fmt.Stringer.
func (irq IRQ) String() string {
	switch irq {
	case IRQTick:
		return "tick"
	case IRQEvent:
		return "event"
	}
	return "irq?"
}

// Context is a saved execution context.
type Context interface {
	// Switch saves the caller into this context and resumes next.
	// It returns when this context is resumed again, or false if the
	// processor halted while it was parked.
	Switch(next Context) bool
	// Restore resumes this context without saving the caller.
	// The caller must not continue executing kernel code afterwards.
	Restore()
	// Release discards a parked context which will never be resumed.
	Release()
}

// CPU is the single processor the kernel schedules tasks on.
type CPU interface {
	// Bootstrap returns the context of the caller, the kernel's own
	// control flow.
	Bootstrap() Context
	// NewContext prepares a context which runs entry when first resumed.
	NewContext(entry func()) Context
	// SetHandler installs the interrupt service routine.
	SetHandler(isr func(IRQ))

	// Disable masks interrupts.
	Disable()
	// Enable unmasks interrupts and services any pending ones.
	Enable()
	// Service runs the handler for pending interrupts if unmasked.
	Service()
	// Raise marks an interrupt pending. Safe from any goroutine.
	Raise(irq IRQ)
	// Wait parks the processor until an interrupt is pending.
	// It returns false if the processor halted.
	Wait() bool

	// Halt stops the processor. Parked contexts never resume.
	Halt()
	// Done is closed when the processor halts.
	Done() <-chan struct{}
	// Join waits until every context created by NewContext has exited.
	Join()
}

// Halted reports whether cpu has halted.
func Halted(cpu CPU) bool {
	select {
	case <-cpu.Done():
		return true
	default:
		return false
	}
}
