package stream

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry"
)

func TestPackets(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("hello")))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{5, 0, 0, 0}, buf.Bytes()[:4])

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, "hello", string(pkt))
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)

	buf.Write([]byte{3, 0, 0, 0, 'a'})
	_, err = rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, uint32(MaxPacketSize+1))
	_, err = rw.ReadPacket()
	require.ErrorIs(t, err, ErrPacketTooLarge)
}

type fakeTarget struct {
	telemetry.Target
	status kernel.Status
}

func (f *fakeTarget) RemoteSnapshot(ctx context.Context) (kernel.Status, error) {
	return f.status, nil
}

func TestRecordReplay(t *testing.T) {
	var buf bytes.Buffer
	target := &fakeTarget{}
	r := &Recorder{
		Stream: New(&buf),
		Source: telemetry.Source{Device: "dev"},
		Target: target,
	}
	for n := 0; n < 3; n++ {
		target.status = kernel.Status{Ticks: uint64(n), Tasks: []kernel.TaskStatus{{ID: 1, Name: "a"}}}
		require.NoError(t, r.Record(context.Background()))
	}
	var ticks []uint64
	require.NoError(t, Replay(&buf, func(msg proto.Message) error {
		status := msg.(*telemetry.KernelStatus)
		require.Equal(t, "dev", status.Device)
		require.Len(t, status.Tasks, 1)
		ticks = append(ticks, status.Ticks)
		return nil
	}))
	require.Equal(t, []uint64{0, 1, 2}, ticks)
}

func TestRecorderRun(t *testing.T) {
	var buf bytes.Buffer
	r := &Recorder{
		Stream:   New(&buf),
		Target:   &fakeTarget{},
		Interval: time.Millisecond,
	}
	require.Equal(t, "recorder", r.Name())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, r.Run(ctx), context.DeadlineExceeded)
	var count int
	require.NoError(t, Replay(&buf, func(proto.Message) error {
		count++
		return nil
	}))
	require.Greater(t, count, 0)
}
