// Package sh is an interactive shell attached to a running kernel.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/fatih/color"

	fx "github.com/robotalks/rtk.go/pkg/framework"
	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Timeout     time.Duration

	Shell  *ishell.Shell
	Source telemetry.Source
	Target telemetry.Target
}

const (
	shellKey = "$shell"
	prompt   = "rtk> "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PsCmd,
		&TicksCmd,
	}

	stateColors = map[string]*color.Color{
		kernel.Running.String():   color.New(color.FgGreen, color.Bold),
		kernel.Ready.String():     color.New(color.FgGreen),
		kernel.Blocked.String():   color.New(color.FgYellow),
		kernel.Suspended.String(): color.New(color.FgRed),
	}
)

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(source telemetry.Source, target telemetry.Target) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     time.Second,

		Shell:  ishell.New(),
		Source: source,
		Target: target,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// ParseTaskID parses a task id argument.
func ParseTaskID(arg string) (kernel.TaskID, error) {
	id, err := strconv.ParseUint(arg, 0, 16)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return kernel.TaskID(id), nil
}

// WithTaskID wraps a command func taking a task id as the first argument.
func WithTaskID(fn func(c *ishell.Context, id kernel.TaskID)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("task id required"))
			return
		}
		id, err := ParseTaskID(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		fn(c, id)
	}
}

// Apply sends a command to the kernel and waits for the reply.
func (s *Shell) Apply(cmd *telemetry.Command) *telemetry.CommandReply {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	return s.Source.Apply(ctx, s.Target, cmd)
}

// DoCommand runs a command and prints the result.
func DoCommand(c *ishell.Context, cmd *telemetry.Command) {
	s := ShellFrom(c)
	reply := s.Apply(cmd)
	if reply.Error != "" {
		c.Err(fmt.Errorf("%s", reply.Error))
		return
	}
	if s.OutputJSON {
		out, err := json.Marshal(reply)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println("OK")
}

// WriteStatus prints a task table.
func WriteStatus(w io.Writer, status *telemetry.KernelStatus) error {
	fmt.Fprintf(w, "ticks %d, current %d, preemptive %v, stack %d bytes\n",
		status.Ticks, status.Current, status.Preemptive, status.StackUsed)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tPRIORITY\tDELAY\tSTACK\tSWITCHES")
	for _, t := range status.Tasks {
		state := t.State
		if c := stateColors[state]; c != nil {
			state = c.Sprint(state)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d/%d\t%d\n",
			t.Id, t.Name, state, kernel.Priority(t.Priority),
			t.Delay, t.StackUsed, t.StackSize, t.Switches)
	}
	return tw.Flush()
}

// Run implements framework.Runnable. With args, it runs them as a single
// command instead of the interactive shell.
func (s *Shell) Run(ctx context.Context) error {
	return s.RunArgs(ctx)
}

// RunArgs runs the shell with optional command arguments.
func (s *Shell) RunArgs(ctx context.Context, args ...string) error {
	return fx.RunWithContextCancel(ctx, s.Shell.Close, func() error {
		if len(args) > 0 {
			return s.Shell.Process(args...)
		}
		if !s.Interactive {
			return fmt.Errorf("command expected")
		}
		s.Shell.Run()
		return nil
	})
}

// Name implements framework.Named.
func (s *Shell) Name() string {
	return "shell"
}

var (
	// PsCmd lists tasks.
	PsCmd = ishell.Cmd{
		Name:    "ps",
		Aliases: []string{"tasks"},
		Help:    "list tasks",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			reply := s.Apply(&telemetry.Command{Op: telemetry.OpStatus})
			if reply.Error != "" {
				c.Err(fmt.Errorf("%s", reply.Error))
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(reply.Status)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			var buf bytes.Buffer
			WriteStatus(&buf, reply.Status)
			c.Print(buf.String())
		},
	}

	// TicksCmd prints the tick counter.
	TicksCmd = ishell.Cmd{
		Name: "ticks",
		Help: "print the tick counter",
		Func: func(c *ishell.Context) {
			reply := ShellFrom(c).Apply(&telemetry.Command{Op: telemetry.OpStatus})
			if reply.Error != "" {
				c.Err(fmt.Errorf("%s", reply.Error))
				return
			}
			c.Println(reply.Status.Ticks)
		},
	}
)
