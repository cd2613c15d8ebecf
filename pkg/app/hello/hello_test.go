package hello

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rtk.go/pkg/kernel"
)

func TestHello(t *testing.T) {
	var out bytes.Buffer
	app := &App{Out: &out, Rounds: 2}
	k := kernel.NewHost(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, k.Start(ctx, app.Main))
	require.False(t, k.Preemptive())
	require.Equal(t, []string{
		"hello world!",
		"[task 0 100000]",
		"[task 1 200000]",
		"[task 2 300000]",
		"[task 0 100001]",
		"[task 1 200001]",
		"[task 2 300001]",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))
}
