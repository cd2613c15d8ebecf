// Package hello is the smallest kernel application: three tasks of equal
// priority printing a counter and yielding to each other.
package hello

import (
	"fmt"
	"io"
	"os"

	"github.com/robotalks/rtk.go/pkg/kernel"
)

// App prints from three cooperative tasks.
type App struct {
	Out io.Writer
	// Rounds limits the iterations of each task, 0 runs forever.
	Rounds int
}

// New creates the application writing to stdout.
func New() *App {
	return &App{Out: os.Stdout}
}

// Main registers the tasks and selects cooperative scheduling.
func (a *App) Main(k *kernel.Kernel) bool {
	for n := 0; n < 3; n++ {
		if _, err := k.AddWith(a.task(n), kernel.TaskOptions{Name: fmt.Sprintf("task%d", n)}); err != nil {
			k.Panic(kernel.PanicApplication)
		}
	}
	fmt.Fprintln(a.Out, "hello world!")
	return false
}

func (a *App) task(n int) kernel.TaskFunc {
	return func(k *kernel.Kernel) {
		cnt := (n + 1) * 100000
		for i := 0; a.Rounds == 0 || i < a.Rounds; i++ {
			fmt.Fprintf(a.Out, "[task %d %d]\n", n, cnt)
			cnt++
			k.Yield()
		}
	}
}
