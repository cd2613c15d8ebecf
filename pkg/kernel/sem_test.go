package kernel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSemaphore(t *testing.T) {
	k := newTestKernel(t, false)
	testCases := []struct {
		name         string
		max, initial int
		valid        bool
	}{
		{"mutex", 1, 1, true},
		{"event", 1, 0, true},
		{"counting", 10, 3, true},
		{"initial above max", 1, 2, false},
		{"zero max", 0, 0, false},
		{"negative initial", 3, -1, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := k.NewSemaphore(tc.max, tc.initial)
			if !tc.valid {
				require.ErrorIs(t, err, ErrInvalidArgument)
				require.Nil(t, s)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.initial, s.Count())
			require.Equal(t, tc.max, s.Max())
		})
	}
}

func TestSemaphoreSaturates(t *testing.T) {
	k := newTestKernel(t, false)
	s := k.MustNewSemaphore(2, 0)
	for i := 0; i < 5; i++ {
		s.Signal()
	}
	require.Equal(t, 2, s.Count())
	require.True(t, s.TryWait())
	require.True(t, s.TryWait())
	require.False(t, s.TryWait())
	require.Zero(t, s.Count())
}

func TestSemaphoreBounds(t *testing.T) {
	k := newTestKernel(t, false)
	s := k.MustNewSemaphore(5, 2)
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		if rnd.Intn(2) == 0 {
			s.Signal()
		} else {
			s.TryWait()
		}
		n := s.Count()
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, s.Max())
	}
}

func TestSemaphoreMutex(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			k := newTestKernel(t, mode.preemptive)
			sem := k.MustNewSemaphore(1, 1)
			var trace []string
			var bState State
			var waiting, count int
			var b TaskID
			mustAdd(t, k, "a", PriorityNormal, func(k *Kernel) {
				sem.Wait()
				trace = append(trace, "a acquired")
				k.Yield()
				ts, _ := k.Snapshot().Task(b)
				bState = ts.State
				waiting, count = sem.Waiting(), sem.Count()
				trace = append(trace, "a released")
				sem.Signal()
			})
			b = mustAdd(t, k, "b", PriorityNormal, func(k *Kernel) {
				sem.Wait()
				trace = append(trace, "b acquired")
				sem.Signal()
			})
			require.NoError(t, runKernel(t, k))
			require.Equal(t, []string{"a acquired", "a released", "b acquired"}, trace)
			require.Equal(t, Blocked, bState)
			require.Equal(t, 1, waiting)
			require.Zero(t, count)
			require.Equal(t, 1, sem.Count())
		})
	}
}

func TestSemaphoreFIFO(t *testing.T) {
	k := newTestKernel(t, false)
	sem := k.MustNewSemaphore(1, 0)
	var order []int
	for n := 1; n <= 3; n++ {
		n := n
		mustAdd(t, k, "", PriorityNormal, func(k *Kernel) {
			k.Delay(uint32(4 - n))
			sem.Wait()
			order = append(order, n)
		})
	}
	mustAdd(t, k, "signal", PriorityLow, func(k *Kernel) {
		k.Delay(10)
		for i := 0; i < 3; i++ {
			sem.Signal()
			k.Delay(1)
		}
	})
	require.NoError(t, runKernel(t, k))
	require.Equal(t, []int{3, 2, 1}, order)
}

func TestSemaphoreBlocksUntilSignal(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			k := newTestKernel(t, mode.preemptive)
			sem := k.MustNewSemaphore(1, 0)
			var acquiredAt uint64
			mustAdd(t, k, "consumer", PriorityHigh, func(k *Kernel) {
				sem.Wait()
				acquiredAt = k.Ticks()
			})
			mustAdd(t, k, "producer", PriorityNormal, func(k *Kernel) {
				k.Delay(5)
				sem.Signal()
			})
			require.NoError(t, runKernel(t, k))
			require.Equal(t, uint64(5), acquiredAt)
			require.Zero(t, sem.Count())
		})
	}
}
