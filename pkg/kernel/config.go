package kernel

import (
	"flag"
	"os"
	"strconv"
)

// Config defines the resources and mode of a kernel.
type Config struct {
	// MaxTasks is the number of task slots.
	MaxTasks int
	// StackMemory is the total bytes available for task stacks.
	StackMemory int
	// DefaultStackSize is used when a task is added with stack size 0.
	DefaultStackSize int
	// GuardSize is the canary band at the end of each stack.
	GuardSize int
	// Preemptive allows the tick to force a dispatch.
	Preemptive bool
	// VirtualTime delivers a tick whenever the processor would idle
	// while tasks wait on time, instead of waiting for the timer.
	VirtualTime bool
}

var defaultConfig = Config{
	MaxTasks:         32,
	StackMemory:      64 << 10,
	DefaultStackSize: 1024,
	GuardSize:        32,
}

func init() {
	if val, err := strconv.Atoi(os.Getenv("RTK_MAX_TASKS")); err == nil && val > 0 {
		defaultConfig.MaxTasks = val
	}
	if val, err := strconv.Atoi(os.Getenv("RTK_STACK_MEMORY")); err == nil && val > 0 {
		defaultConfig.StackMemory = val
	}
	if val, err := strconv.ParseBool(os.Getenv("RTK_PREEMPTIVE")); err == nil {
		defaultConfig.Preemptive = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.MaxTasks, "max-tasks", defaultConfig.MaxTasks, "Number of task slots.")
	flag.IntVar(&defaultConfig.StackMemory, "stack-memory", defaultConfig.StackMemory, "Bytes available for task stacks.")
	flag.IntVar(&defaultConfig.DefaultStackSize, "stack-size", defaultConfig.DefaultStackSize, "Default task stack size.")
	flag.BoolVar(&defaultConfig.Preemptive, "preemptive", defaultConfig.Preemptive, "Allow the tick to preempt tasks.")
	flag.BoolVar(&defaultConfig.VirtualTime, "virtual-time", defaultConfig.VirtualTime, "Advance ticks whenever the processor idles.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
