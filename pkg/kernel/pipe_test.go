package kernel

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPipe(t *testing.T) {
	k := newTestKernel(t, false)
	_, err := k.NewPipe(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	p, err := k.NewPipe(64)
	require.NoError(t, err)
	require.Equal(t, 64, p.Cap())
	require.Zero(t, p.Size())
}

func TestPipeRoundTrip(t *testing.T) {
	k := newTestKernel(t, false)
	p, err := k.NewPipe(16)
	require.NoError(t, err)
	for _, n := range []int{1, 5, 16, 7, 16} {
		data := bytes.Repeat([]byte{byte(n)}, n)
		data[0] = 0xff
		written, err := p.Write(data)
		require.NoError(t, err)
		require.Equal(t, n, written)
		require.Equal(t, n, p.Size())
		buf := make([]byte, 32)
		require.Equal(t, n, p.TryRead(buf))
		require.Equal(t, data, buf[:n])
		require.Zero(t, p.Size())
	}
}

func TestPipePartialWrite(t *testing.T) {
	k := newTestKernel(t, false)
	p, err := k.NewPipe(4)
	require.NoError(t, err)
	n, err := p.Write([]byte("abcdef"))
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Equal(t, 4, n)
	require.Equal(t, 4, p.Size())
	n, err = p.Write([]byte("g"))
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Zero(t, n)

	buf := make([]byte, 3)
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "abc", string(buf[:n]))
	n, err = p.Write([]byte("xyz"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = p.Write([]byte("!"))
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Zero(t, n)
	buf = make([]byte, 8)
	require.Equal(t, 4, p.TryRead(buf))
	require.Equal(t, "dxyz", string(buf[:4]))
}

func TestPipeOccupancy(t *testing.T) {
	k := newTestKernel(t, false)
	p, err := k.NewPipe(13)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(3))
	var model []byte
	var seq byte
	for i := 0; i < 5000; i++ {
		if rnd.Intn(2) == 0 {
			data := make([]byte, rnd.Intn(8))
			for n := range data {
				data[n] = seq
				seq++
			}
			n, _ := p.Write(data)
			model = append(model, data[:n]...)
			seq -= byte(len(data) - n)
		} else {
			buf := make([]byte, rnd.Intn(8))
			n := p.TryRead(buf)
			require.Equal(t, model[:n], buf[:n])
			model = model[n:]
		}
		require.GreaterOrEqual(t, p.Size(), 0)
		require.LessOrEqual(t, p.Size(), p.Cap())
		require.Equal(t, len(model), p.Size())
	}
}

func TestPipeBlockingRead(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			k := newTestKernel(t, mode.preemptive)
			p, err := k.NewPipe(8)
			require.NoError(t, err)
			var got []byte
			var readAt uint64
			mustAdd(t, k, "reader", PriorityHigh, func(k *Kernel) {
				buf := make([]byte, 8)
				n, _ := p.Read(buf)
				readAt = k.Ticks()
				got = append(got, buf[:n]...)
			})
			mustAdd(t, k, "writer", PriorityNormal, func(k *Kernel) {
				k.Delay(3)
				p.Write([]byte("hello"))
			})
			require.NoError(t, runKernel(t, k))
			require.Equal(t, "hello", string(got))
			require.Equal(t, uint64(3), readAt)
		})
	}
}

func TestPipeWriteFull(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			k := newTestKernel(t, mode.preemptive)
			p, err := k.NewPipe(8)
			require.NoError(t, err)
			data := make([]byte, 100)
			rand.New(rand.NewSource(5)).Read(data)
			var got []byte
			var written int
			mustAdd(t, k, "writer", PriorityNormal, func(k *Kernel) {
				written, _ = p.WriteFull(data)
			})
			mustAdd(t, k, "reader", PriorityNormal, func(k *Kernel) {
				buf := make([]byte, 5)
				for len(got) < len(data) {
					n, _ := p.Read(buf)
					got = append(got, buf[:n]...)
					k.Delay(uint32(n % 2))
				}
			})
			require.NoError(t, runKernel(t, k))
			require.Equal(t, len(data), written)
			require.Equal(t, data, got)
		})
	}
}
