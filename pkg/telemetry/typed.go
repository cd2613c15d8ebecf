package telemetry

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/golang/protobuf/proto"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
	TypeIDMaskReply uint32 = 0x00008000
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// TypeID Groups
const (
	GroupKernel uint32 = 0x00010000
)

// TypeIDs
const (
	CommandTypeID      uint32 = GroupKernel | 0x0001
	CommandReplyTypeID uint32 = CommandTypeID | TypeIDMaskReply
	KernelStatusTypeID uint32 = TypeIDKindEvent | GroupKernel | 0x0002
)

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

var (
	// ErrNotSerializable indicates the message has no type id.
	ErrNotSerializable = errors.New("not serializable message")
	// ErrUnsupportedCommand indicates the command is unsupported.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// MessageTypes maps type ids to message factories.
var MessageTypes = map[uint32]func() proto.Message{
	CommandTypeID:      func() proto.Message { return &Command{} },
	CommandReplyTypeID: func() proto.Message { return &CommandReply{} },
	KernelStatusTypeID: func() proto.Message { return &KernelStatus{} },
}

// TypeIDOf finds the type id of a message.
func TypeIDOf(msg proto.Message) (uint32, bool) {
	typ := reflect.TypeOf(msg)
	for id, fn := range MessageTypes {
		if reflect.TypeOf(fn()) == typ {
			return id, true
		}
	}
	return 0, false
}

// TypedFrom wraps a message in a Typed.
func TypedFrom(msg proto.Message) (*Typed, error) {
	typeID, ok := TypeIDOf(msg)
	if !ok {
		return nil, ErrNotSerializable
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Typed{TypeId: typeID, Message: data}, nil
}

// Encode wraps a message and encodes the Typed to bytes.
func Encode(msg proto.Message) ([]byte, error) {
	typed, err := TypedFrom(msg)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(typed)
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Decode decodes the wrapped message.
func (m *Typed) Decode() (proto.Message, error) {
	fn, ok := MessageTypes[m.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: m.TypeId}
	}
	msg := fn()
	if err := proto.Unmarshal(m.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Kind gets message kind from type ID.
func (m *Typed) Kind() uint32 {
	return m.TypeId & TypeIDMaskKind
}

// IsCommand determines if the message is a command.
func (m *Typed) IsCommand() bool {
	return m.Kind() == TypeIDKindCommand
}

// IsEvent determines if the message is an event.
func (m *Typed) IsEvent() bool {
	return m.Kind() == TypeIDKindEvent
}

// Decode decodes bytes into the wrapped message.
func Decode(data []byte) (proto.Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, err
	}
	return typed.Decode()
}
