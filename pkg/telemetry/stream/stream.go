// Package stream records telemetry to a byte stream, e.g. a file or a
// serial line, and reads it back.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rtk.go/pkg/telemetry"
)

// MaxPacketSize bounds the length accepted by ReadPacket.
const MaxPacketSize = 1 << 20

// ErrPacketTooLarge indicates a corrupted or foreign length prefix.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter frames packets on a stream.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket reads one packet.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket writes one packet.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	if err := binary.Write(p, binary.LittleEndian, uint32(len(pkt))); err != nil {
		return err
	}
	_, err := p.Write(pkt)
	return err
}

// WriteMessage encodes msg in a Typed and writes it as a packet.
func (p *ReadWriter) WriteMessage(msg proto.Message) error {
	pkt, err := telemetry.Encode(msg)
	if err != nil {
		return err
	}
	return p.WritePacket(pkt)
}

// ReadMessage reads a packet and decodes the Typed in it.
func (p *ReadWriter) ReadMessage() (proto.Message, error) {
	pkt, err := p.ReadPacket()
	if err != nil {
		return nil, err
	}
	return telemetry.Decode(pkt)
}

// Recorder writes the kernel status periodically.
type Recorder struct {
	Stream   *ReadWriter
	Source   telemetry.Source
	Target   telemetry.Target
	Interval time.Duration
}

// Name implements framework.Named.
func (r *Recorder) Name() string {
	return "recorder"
}

// Record writes one status message.
func (r *Recorder) Record(ctx context.Context) error {
	status, err := r.Source.Snapshot(ctx, r.Target)
	if err != nil {
		return err
	}
	return r.Stream.WriteMessage(status)
}

// Run implements framework.Runnable.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := r.Source.Snapshot(ctx, r.Target)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				glog.V(2).Infof("status not recorded: %v", err)
				continue
			}
			if err := r.Stream.WriteMessage(status); err != nil {
				return err
			}
		}
	}
}

// Replay reads messages until EOF and passes each to fn.
func Replay(r io.Reader, fn func(proto.Message) error) error {
	rw := &ReadWriter{ReadWriter: struct {
		io.Reader
		io.Writer
	}{r, io.Discard}}
	for {
		msg, err := rw.ReadMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
}
