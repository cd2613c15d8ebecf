package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rtk.go/pkg/kernel"
	"github.com/robotalks/rtk.go/pkg/telemetry"
)

type fakeTarget struct {
	telemetry.Target
	ticks uint64
}

func (f *fakeTarget) RemoteSnapshot(ctx context.Context) (kernel.Status, error) {
	return kernel.Status{Ticks: f.ticks, Tasks: []kernel.TaskStatus{{ID: 1, Name: "a", State: kernel.Ready}}}, nil
}

func (f *fakeTarget) RemoteSuspend(ctx context.Context, id kernel.TaskID) error {
	if id != 1 {
		return kernel.ErrNotFound
	}
	return nil
}

func dial(t *testing.T, base, path string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(base, "http") + path
	conn, err := websocket.Dial(url, "", base)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestJSONStream(t *testing.T) {
	h := NewHandler(telemetry.Source{Device: "dev"}, &fakeTarget{ticks: 9}, time.Millisecond)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv.URL, "/status.json")
	for n := 0; n < 3; n++ {
		var status telemetry.KernelStatus
		require.NoError(t, websocket.JSON.Receive(conn, &status))
		require.Equal(t, "dev", status.Device)
		require.Equal(t, uint64(9), status.Ticks)
		require.Len(t, status.Tasks, 1)
		require.Equal(t, "READY", status.Tasks[0].State)
	}
}

func TestBinaryCommands(t *testing.T) {
	h := NewHandler(telemetry.Source{Device: "dev"}, &fakeTarget{}, 5*time.Millisecond)
	srv := httptest.NewServer(h)
	defer srv.Close()

	rw := New(dial(t, srv.URL, "/status"))
	pkt, err := telemetry.Encode(&telemetry.Command{Id: "x", Op: telemetry.OpSuspend, Task: 2})
	require.NoError(t, err)
	require.NoError(t, rw.WritePacket(pkt))

	var statuses int
	for {
		pkt, err := rw.ReadPacket()
		require.NoError(t, err)
		msg, err := telemetry.Decode(pkt)
		require.NoError(t, err)
		if reply, ok := msg.(*telemetry.CommandReply); ok {
			require.Equal(t, "x", reply.Id)
			require.Contains(t, reply.Error, "not found")
			require.NotNil(t, reply.Status)
			break
		}
		statuses++
		require.Less(t, statuses, 1000)
	}
}

func TestServer(t *testing.T) {
	s := &Server{
		Addr:    "127.0.0.1:0",
		Handler: NewHandler(telemetry.Source{}, &fakeTarget{}, time.Millisecond),
	}
	require.Equal(t, "websocket", s.Name())
	addr, err := s.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	conn := dial(t, "http://"+addr.String(), "/status.json")
	var status telemetry.KernelStatus
	require.NoError(t, websocket.JSON.Receive(conn, &status))

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}
