package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtk.go/pkg/app/hello"
	"github.com/robotalks/rtk.go/pkg/env"
	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry"
	"github.com/robotalks/rtk.go/pkg/telemetry/stream"
)

func newHost(t *testing.T) *Host {
	econf := env.NewConfig()
	econf.DeviceID = "test"
	econf.Tick = time.Millisecond
	econf.StatusInterval = time.Millisecond
	return &Host{Env: econf, Kernel: kernel.NewConfig()}
}

func TestHostRunsToCompletion(t *testing.T) {
	h := newHost(t)
	a := hello.New()
	a.Out = io.Discard
	a.Rounds = 3
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, h.Run(ctx, a.Main))
}

func TestHostRecords(t *testing.T) {
	h := newHost(t)
	h.Env.RecordFile = filepath.Join(t.TempDir(), "status.rec")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := h.Run(ctx, func(k *kernel.Kernel) bool {
		k.AddWith(func(k *kernel.Kernel) {
			k.Delay(50)
		}, kernel.TaskOptions{Name: "sleeper"})
		return false
	})
	require.NoError(t, err)

	f, err := os.Open(h.Env.RecordFile)
	require.NoError(t, err)
	defer f.Close()
	var names []string
	require.NoError(t, stream.Replay(f, func(msg proto.Message) error {
		status := msg.(*telemetry.KernelStatus)
		require.Equal(t, "test", status.Device)
		for _, ts := range status.Tasks {
			names = append(names, ts.Name)
		}
		return nil
	}))
	require.Contains(t, names, "sleeper")
}

func TestHostPanic(t *testing.T) {
	h := newHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := h.Run(ctx, func(k *kernel.Kernel) bool { return false })
	var perr *kernel.PanicError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, kernel.PanicNoTasks, perr.Code)
}
