// Package app boots kernel applications on the host with the tick source
// and telemetry configured from the environment.
package app

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	_ "github.com/robotalks/rtk.go/pkg/cli/cmds/task"
	"github.com/robotalks/rtk.go/pkg/cli/sh"
	"github.com/robotalks/rtk.go/pkg/env"
	fx "github.com/robotalks/rtk.go/pkg/framework"
	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry/mqtt"
	"github.com/robotalks/rtk.go/pkg/telemetry/stream"
	"github.com/robotalks/rtk.go/pkg/telemetry/websocket"
)

// Host runs one kernel application.
type Host struct {
	Env    *env.Config
	Kernel *kernel.Config
	// Shell attaches an interactive shell; leaving it stops the kernel.
	Shell bool
	// HandleSignals stops the kernel on SIGINT and SIGTERM.
	HandleSignals bool
}

var withShell bool

// SetupFlags sets up command line flags of every package used by Host.
func SetupFlags() {
	kernel.SetupFlags()
	env.SetupFlags()
	sh.SetupFlags()
	flag.BoolVar(&withShell, "shell", withShell, "Attach an interactive shell.")
}

// NewHost creates a Host from the default configurations.
func NewHost() *Host {
	return &Host{
		Env:           env.Default(),
		Kernel:        kernel.Default(),
		Shell:         withShell,
		HandleSignals: true,
	}
}

// Run starts the kernel with appMain and blocks until it stops.
func (h *Host) Run(ctx context.Context, appMain func(*kernel.Kernel) bool) error {
	k := kernel.NewHost(h.Kernel)
	runner := fx.NewRunnerWith(ctx)
	if h.HandleSignals {
		runner.HandleSignals()
	}
	runner.GoCritical(fx.NamedRun(k.Name(), fx.RunFunc(func(ctx context.Context) error {
		return k.Start(ctx, appMain)
	})))
	if !h.Kernel.VirtualTime {
		runner.Go(k.Ticker(h.Env.Tick))
	}

	source := h.Env.Source()
	if h.Env.MQTTURL != "" {
		p, err := mqtt.NewPublisher(h.Env.MQTTURL, h.Env.Meta(), k)
		if err != nil {
			runner.Stop()
			runner.Wait()
			return err
		}
		p.Interval = h.Env.StatusInterval
		runner.Go(p)
	}
	if h.Env.WebsocketAddr != "" {
		runner.Go(&websocket.Server{
			Addr:    h.Env.WebsocketAddr,
			Handler: websocket.NewHandler(source, k, h.Env.StatusInterval),
		})
	}
	if h.Env.RecordFile != "" {
		f, err := os.Create(h.Env.RecordFile)
		if err != nil {
			runner.Stop()
			runner.Wait()
			return err
		}
		defer f.Close()
		runner.Go(&stream.Recorder{
			Stream:   stream.New(f),
			Source:   source,
			Target:   k,
			Interval: h.Env.StatusInterval,
		})
	}
	if h.Shell {
		runner.GoCritical(sh.New(source, k))
	}
	glog.Infof("device %s boot %s", source.Device, source.BootID)
	return runner.Wait()
}
