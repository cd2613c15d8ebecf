package telemetry

import (
	"github.com/golang/protobuf/proto"
)

// Typed is the wire envelope of every telemetry message.
type Typed struct {
	TypeId  uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

// TaskStatus is the wire form of kernel.TaskStatus.
type TaskStatus struct {
	Id        uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Name      string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	State     string `protobuf:"bytes,3,opt,name=state,proto3" json:"state,omitempty"`
	Priority  uint32 `protobuf:"varint,4,opt,name=priority,proto3" json:"priority,omitempty"`
	Delay     uint32 `protobuf:"varint,5,opt,name=delay,proto3" json:"delay,omitempty"`
	StackSize uint32 `protobuf:"varint,6,opt,name=stack_size,json=stackSize,proto3" json:"stack_size,omitempty"`
	StackUsed uint32 `protobuf:"varint,7,opt,name=stack_used,json=stackUsed,proto3" json:"stack_used,omitempty"`
	Switches  uint64 `protobuf:"varint,8,opt,name=switches,proto3" json:"switches,omitempty"`
}

func (m *TaskStatus) Reset()         { *m = TaskStatus{} }
func (m *TaskStatus) String() string { return proto.CompactTextString(m) }
func (*TaskStatus) ProtoMessage()    {}

// KernelStatus is the wire form of kernel.Status.
type KernelStatus struct {
	Device     string        `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	BootId     string        `protobuf:"bytes,2,opt,name=boot_id,json=bootId,proto3" json:"boot_id,omitempty"`
	Ticks      uint64        `protobuf:"varint,3,opt,name=ticks,proto3" json:"ticks,omitempty"`
	Current    uint32        `protobuf:"varint,4,opt,name=current,proto3" json:"current,omitempty"`
	Preemptive bool          `protobuf:"varint,5,opt,name=preemptive,proto3" json:"preemptive,omitempty"`
	StackUsed  uint32        `protobuf:"varint,6,opt,name=stack_used,json=stackUsed,proto3" json:"stack_used,omitempty"`
	Tasks      []*TaskStatus `protobuf:"bytes,7,rep,name=tasks,proto3" json:"tasks,omitempty"`
	Timestamp  int64         `protobuf:"varint,8,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *KernelStatus) Reset()         { *m = KernelStatus{} }
func (m *KernelStatus) String() string { return proto.CompactTextString(m) }
func (*KernelStatus) ProtoMessage()    {}

// Command is a remote control request.
type Command struct {
	Id       string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Op       string `protobuf:"bytes,2,opt,name=op,proto3" json:"op,omitempty"`
	Task     uint32 `protobuf:"varint,3,opt,name=task,proto3" json:"task,omitempty"`
	Priority uint32 `protobuf:"varint,4,opt,name=priority,proto3" json:"priority,omitempty"`
}

func (m *Command) Reset()         { *m = Command{} }
func (m *Command) String() string { return proto.CompactTextString(m) }
func (*Command) ProtoMessage()    {}

// CommandReply answers a Command with the same Id.
type CommandReply struct {
	Id     string        `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Error  string        `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
	Status *KernelStatus `protobuf:"bytes,3,opt,name=status,proto3" json:"status,omitempty"`
}

func (m *CommandReply) Reset()         { *m = CommandReply{} }
func (m *CommandReply) String() string { return proto.CompactTextString(m) }
func (*CommandReply) ProtoMessage()    {}
