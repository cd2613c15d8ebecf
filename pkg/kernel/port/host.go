package port

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// Host is a CPU backed by goroutines.
//
// Every context owns a goroutine, and exactly one of them holds the
// processor at a time: switching hands a wake token to the next context and
// parks the caller. Interrupts raised from other goroutines are only counted;
// their handler always runs on the goroutine currently holding the processor,
// inside Enable, Service or after Wait. Preemption therefore happens at
// kernel entry and exit points, like a pended software interrupt.
type Host struct {
	isr     func(IRQ)
	masked  bool
	pending [NumIRQs]atomic.Uint32

	irqCh    chan struct{}
	haltCh   chan struct{}
	haltOnce sync.Once
	wg       sync.WaitGroup
}

// NewHost creates a Host.
func NewHost() *Host {
	return &Host{
		irqCh:  make(chan struct{}, 1),
		haltCh: make(chan struct{}),
	}
}

type hostContext struct {
	host     *Host
	wake     chan struct{}
	kill     chan struct{}
	killOnce sync.Once
}

func (h *Host) newContext() *hostContext {
	return &hostContext{
		host: h,
		wake: make(chan struct{}, 1),
		kill: make(chan struct{}),
	}
}

// Bootstrap implements CPU.
func (h *Host) Bootstrap() Context {
	return h.newContext()
}

// NewContext implements CPU.
func (h *Host) NewContext(entry func()) Context {
	c := h.newContext()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if c.park() {
			entry()
		}
	}()
	return c
}

// SetHandler implements CPU.
func (h *Host) SetHandler(isr func(IRQ)) {
	h.isr = isr
}

// Disable implements CPU.
func (h *Host) Disable() {
	h.masked = true
}

// Enable implements CPU.
func (h *Host) Enable() {
	h.masked = false
	h.Service()
}

// Service implements CPU.
func (h *Host) Service() {
	if h.masked || h.isr == nil {
		return
	}
	h.masked = true
	for irq := IRQ(0); irq < NumIRQs; irq++ {
		for n := h.pending[irq].Swap(0); n > 0; n-- {
			h.isr(irq)
		}
	}
	h.masked = false
}

// Raise implements CPU.
func (h *Host) Raise(irq IRQ) {
	h.pending[irq].Add(1)
	select {
	case h.irqCh <- struct{}{}:
	default:
	}
}

func (h *Host) hasPending() bool {
	for irq := range h.pending {
		if h.pending[irq].Load() > 0 {
			return true
		}
	}
	return false
}

// Wait implements CPU.
func (h *Host) Wait() bool {
	for {
		if h.hasPending() {
			return true
		}
		select {
		case <-h.irqCh:
		case <-h.haltCh:
			return false
		}
	}
}

// Halt implements CPU.
func (h *Host) Halt() {
	h.haltOnce.Do(func() {
		glog.V(4).Info("host cpu halted")
		close(h.haltCh)
	})
}

// Done implements CPU.
func (h *Host) Done() <-chan struct{} {
	return h.haltCh
}

// Join implements CPU.
func (h *Host) Join() {
	h.wg.Wait()
}

func (c *hostContext) park() bool {
	select {
	case <-c.wake:
	case <-c.kill:
		return false
	case <-c.host.haltCh:
		return false
	}
	select {
	case <-c.host.haltCh:
		return false
	default:
		return true
	}
}

func (c *hostContext) resume() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Switch implements Context.
func (c *hostContext) Switch(next Context) bool {
	n := next.(*hostContext)
	if n == c {
		return true
	}
	n.resume()
	return c.park()
}

// Restore implements Context.
func (c *hostContext) Restore() {
	c.resume()
}

// Release implements Context.
func (c *hostContext) Release() {
	c.killOnce.Do(func() { close(c.kill) })
}
