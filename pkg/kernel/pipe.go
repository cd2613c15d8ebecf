package kernel

import (
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Pipe is a bounded byte ring buffer between tasks.
//
// Write never blocks: it stores what fits and reports io.ErrShortWrite for
// the rest. WriteFull blocks until everything is stored. Read blocks until
// at least one byte is available; TryRead and Size never block.
type Pipe struct {
	k    *Kernel
	buf  []byte
	head int
	size int

	readers waitQueue
	writers waitQueue
}

// NewPipe creates a pipe holding up to capacity bytes.
func (k *Kernel) NewPipe(capacity int) (*Pipe, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: pipe capacity %d", ErrInvalidArgument, capacity)
	}
	return &Pipe{k: k, buf: make([]byte, capacity)}, nil
}

// Cap gets the capacity.
func (p *Pipe) Cap() int {
	return len(p.buf)
}

// Size gets the number of bytes held.
func (p *Pipe) Size() int {
	p.k.enter()
	n := p.size
	p.k.leave()
	return n
}

// Write implements io.Writer.
func (p *Pipe) Write(b []byte) (int, error) {
	k := p.k
	k.enter()
	n := p.put(b)
	k.leave()
	if n < len(b) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteFull writes all of b, blocking while the pipe is full.
func (p *Pipe) WriteFull(b []byte) (int, error) {
	k := p.k
	var written int
	k.enter()
	for {
		written += p.put(b[written:])
		if written == len(b) {
			break
		}
		t := k.self()
		if t == nil {
			break
		}
		glog.V(2).Infof("task[%d] waits on pipe", t.id)
		k.block(t, waitPipe)
		p.writers.push(t)
		k.leave()
		k.enter()
	}
	k.leave()
	if written < len(b) {
		return written, io.ErrShortWrite
	}
	return written, nil
}

// Read implements io.Reader. It blocks until at least one byte is available.
func (p *Pipe) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	k := p.k
	k.enter()
	for p.size == 0 {
		t := k.self()
		if t == nil {
			k.leave()
			return 0, nil
		}
		glog.V(2).Infof("task[%d] waits on pipe", t.id)
		k.block(t, waitPipe)
		p.readers.push(t)
		k.leave()
		k.enter()
	}
	n := p.get(b)
	k.leave()
	return n, nil
}

// TryRead reads what is available without blocking.
func (p *Pipe) TryRead(b []byte) int {
	p.k.enter()
	n := p.get(b)
	p.k.leave()
	return n
}

func (p *Pipe) put(b []byte) int {
	var n int
	for n < len(b) && p.size < len(p.buf) {
		tail := (p.head + p.size) % len(p.buf)
		end := len(p.buf)
		if tail < p.head {
			end = p.head
		}
		c := copy(p.buf[tail:end], b[n:])
		n += c
		p.size += c
	}
	if n > 0 {
		if t := p.readers.pop(); t != nil {
			p.k.wake(t)
		}
	}
	return n
}

func (p *Pipe) get(b []byte) int {
	var n int
	for n < len(b) && p.size > 0 {
		end := p.head + p.size
		if end > len(p.buf) {
			end = len(p.buf)
		}
		c := copy(b[n:], p.buf[p.head:end])
		n += c
		p.size -= c
		p.head = (p.head + c) % len(p.buf)
	}
	if n > 0 {
		if t := p.writers.pop(); t != nil {
			p.k.wake(t)
		}
	}
	if p.size > 0 {
		if t := p.readers.pop(); t != nil {
			p.k.wake(t)
		}
	}
	return n
}
