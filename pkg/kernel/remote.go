package kernel

import (
	"context"

	"github.com/robotalks/rtk.go/pkg/kernel/port"
)

// request is work posted from outside the kernel, executed by the event
// interrupt on whichever context holds the processor.
type request struct {
	fn   func() error
	done chan error
}

func (k *Kernel) post(ctx context.Context, fn func() error) error {
	req := &request{fn: fn, done: make(chan error, 1)}
	k.reqLock.Lock()
	k.requests = append(k.requests, req)
	k.reqLock.Unlock()
	k.cpu.Raise(port.IRQEvent)
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-k.cpu.Done():
		select {
		case err := <-req.done:
			return err
		default:
			return ErrHalted
		}
	}
}

func (k *Kernel) serviceRequests() {
	k.reqLock.Lock()
	reqs := k.requests
	k.requests = nil
	k.reqLock.Unlock()
	for _, req := range reqs {
		req.done <- req.fn()
	}
}

// RemoteSuspend suspends a task from outside the kernel.
func (k *Kernel) RemoteSuspend(ctx context.Context, id TaskID) error {
	return k.post(ctx, func() error { return k.suspend(id) })
}

// RemoteResume resumes a task from outside the kernel.
func (k *Kernel) RemoteResume(ctx context.Context, id TaskID) error {
	return k.post(ctx, func() error { return k.resumeTask(id) })
}

// RemoteSetPriority changes a task priority from outside the kernel.
func (k *Kernel) RemoteSetPriority(ctx context.Context, id TaskID, p Priority) error {
	return k.post(ctx, func() error { return k.setPriority(id, p) })
}

// RemoteRemove removes a task from outside the kernel.
func (k *Kernel) RemoteRemove(ctx context.Context, id TaskID) error {
	return k.post(ctx, func() error { return k.remove(id) })
}

// RemoteSnapshot captures the kernel status from outside the kernel.
func (k *Kernel) RemoteSnapshot(ctx context.Context) (Status, error) {
	resCh := make(chan Status, 1)
	err := k.post(ctx, func() error {
		resCh <- k.snapshot()
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	return <-resCh, nil
}
