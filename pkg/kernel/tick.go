package kernel

import (
	"context"
	"time"

	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

// Tick raises the tick interrupt. Safe from any goroutine.
func (k *Kernel) Tick() {
	k.cpu.Raise(port.IRQTick)
}

// tick is the tick interrupt service routine.
func (k *Kernel) tick() {
	k.ticks++
	for _, n := range k.order {
		t := k.slots[n]
		switch t.wait {
		case waitDelay:
			if t.delay > 0 {
				t.delay--
			}
			if t.delay == 0 {
				k.events.PushBack(event{id: t.id, wait: waitDelay})
			}
		case waitTick:
			k.events.PushBack(event{id: t.id, wait: waitTick})
		}
	}
	if k.preemptive {
		k.tickResched = true
	}
}

// TickSource raises the tick interrupt periodically.
type TickSource struct {
	Kernel *Kernel
	Period time.Duration
}

// Ticker creates a TickSource with the given period.
func (k *Kernel) Ticker(period time.Duration) *TickSource {
	return &TickSource{Kernel: k, Period: period}
}

// Name implements framework.Named.
func (s *TickSource) Name() string {
	return "ticker"
}

// Run implements framework.Runnable.
func (s *TickSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.Kernel.cpu.Done():
			return nil
		case <-ticker.C:
			s.Kernel.Tick()
		}
	}
}
