// Package telemetry exposes a running kernel to the outside: status
// messages, remote commands and their wire encoding. Transports live in the
// sub-packages.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/robotalks/rtk.go/pkg/kernel"
)

// Target is a kernel controlled from outside of its tasks.
// *kernel.Kernel implements it.
type Target interface {
	RemoteSuspend(ctx context.Context, id kernel.TaskID) error
	RemoteResume(ctx context.Context, id kernel.TaskID) error
	RemoteSetPriority(ctx context.Context, id kernel.TaskID, p kernel.Priority) error
	RemoteRemove(ctx context.Context, id kernel.TaskID) error
	RemoteSnapshot(ctx context.Context) (kernel.Status, error)
}

// Command operations.
const (
	OpSuspend  = "suspend"
	OpResume   = "resume"
	OpPriority = "priority"
	OpRemove   = "remove"
	OpStatus   = "status"
)

// Meta describes a device. It is published as JSON.
type Meta struct {
	Device  string            `json:"device"`
	BootID  string            `json:"boot_id,omitempty"`
	Machine string            `json:"machine,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// Source identifies the sender of status messages.
type Source struct {
	Device string
	BootID string
}

// StatusMessage converts a kernel status into its wire form.
func (s Source) StatusMessage(st kernel.Status) *KernelStatus {
	msg := &KernelStatus{
		Device:     s.Device,
		BootId:     s.BootID,
		Ticks:      st.Ticks,
		Current:    uint32(st.Current),
		Preemptive: st.Preemptive,
		StackUsed:  uint32(st.StackUsed),
		Tasks:      make([]*TaskStatus, 0, len(st.Tasks)),
		Timestamp:  time.Now().UnixNano(),
	}
	for _, t := range st.Tasks {
		msg.Tasks = append(msg.Tasks, &TaskStatus{
			Id:        uint32(t.ID),
			Name:      t.Name,
			State:     t.State.String(),
			Priority:  uint32(t.Priority),
			Delay:     t.Delay,
			StackSize: uint32(t.StackSize),
			StackUsed: uint32(t.StackUsed),
			Switches:  t.Switches,
		})
	}
	return msg
}

// Snapshot captures the status of target in wire form.
func (s Source) Snapshot(ctx context.Context, target Target) (*KernelStatus, error) {
	st, err := target.RemoteSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.StatusMessage(st), nil
}

// Apply executes a command against target. The reply always carries the
// current status unless the snapshot itself failed.
func (s Source) Apply(ctx context.Context, target Target, cmd *Command) *CommandReply {
	reply := &CommandReply{Id: cmd.Id}
	if err := execute(ctx, target, cmd); err != nil {
		reply.Error = err.Error()
	}
	if status, err := s.Snapshot(ctx, target); err == nil {
		reply.Status = status
	} else if reply.Error == "" {
		reply.Error = err.Error()
	}
	return reply
}

func execute(ctx context.Context, target Target, cmd *Command) error {
	id := kernel.TaskID(cmd.Task)
	switch cmd.Op {
	case OpSuspend:
		return target.RemoteSuspend(ctx, id)
	case OpResume:
		return target.RemoteResume(ctx, id)
	case OpPriority:
		if cmd.Priority > 0xffff {
			return fmt.Errorf("%w: priority %#x", kernel.ErrInvalidArgument, cmd.Priority)
		}
		return target.RemoteSetPriority(ctx, id, kernel.Priority(cmd.Priority))
	case OpRemove:
		return target.RemoteRemove(ctx, id)
	case OpStatus:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Op)
}

// HandlePacket decodes a Typed command packet, applies it and encodes the
// reply.
func (s Source) HandlePacket(ctx context.Context, target Target, pkt []byte) ([]byte, error) {
	msg, err := Decode(pkt)
	if err != nil {
		return nil, err
	}
	cmd, ok := msg.(*Command)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCommand, msg)
	}
	return Encode(s.Apply(ctx, target, cmd))
}
