// Package task adds task control commands to the shell.
package task

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rtk.go/pkg/cli/sh"
	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry"
)

var (
	// SuspendCmd suspends a task.
	SuspendCmd = ishell.Cmd{
		Name:    "suspend",
		Aliases: []string{"stop"},
		Help:    "ID",
		Func: sh.WithTaskID(func(c *ishell.Context, id kernel.TaskID) {
			sh.DoCommand(c, &telemetry.Command{Op: telemetry.OpSuspend, Task: uint32(id)})
		}),
	}

	// ResumeCmd resumes a task.
	ResumeCmd = ishell.Cmd{
		Name:    "resume",
		Aliases: []string{"cont"},
		Help:    "ID",
		Func: sh.WithTaskID(func(c *ishell.Context, id kernel.TaskID) {
			sh.DoCommand(c, &telemetry.Command{Op: telemetry.OpResume, Task: uint32(id)})
		}),
	}

	// PriorityCmd changes the priority of a task.
	PriorityCmd = ishell.Cmd{
		Name:    "prio",
		Aliases: []string{"nice"},
		Help:    "ID PRIORITY (name or number, e.g. high, 0x0707)",
		Func: sh.WithTaskID(func(c *ishell.Context, id kernel.TaskID) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("PRIORITY required"))
				return
			}
			p, err := kernel.ParsePriority(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &telemetry.Command{Op: telemetry.OpPriority, Task: uint32(id), Priority: uint32(p)})
		}),
	}

	// KillCmd removes a task.
	KillCmd = ishell.Cmd{
		Name:    "kill",
		Aliases: []string{"rm"},
		Help:    "ID",
		Func: sh.WithTaskID(func(c *ishell.Context, id kernel.TaskID) {
			sh.DoCommand(c, &telemetry.Command{Op: telemetry.OpRemove, Task: uint32(id)})
		}),
	}
)

func init() {
	sh.AddCmds(
		&SuspendCmd,
		&ResumeCmd,
		&PriorityCmd,
		&KillCmd,
	)
}
