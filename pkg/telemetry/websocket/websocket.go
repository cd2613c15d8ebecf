// Package websocket streams kernel status to websocket clients.
package websocket

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/rtk.go/pkg/framework"
	"github.com/robotalks/rtk.go/pkg/telemetry"
)

// ReadWriter exchanges binary packets over a websocket connection.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket reads one binary frame.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket writes one binary frame.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Handler streams status frames to each client: JSON text frames at
// /status.json and Typed protobuf binary frames at /status. Binary
// clients may send Typed commands and receive the replies.
type Handler struct {
	Source   telemetry.Source
	Target   telemetry.Target
	Interval time.Duration

	mux *http.ServeMux
}

// NewHandler creates a Handler.
func NewHandler(source telemetry.Source, target telemetry.Target, interval time.Duration) *Handler {
	h := &Handler{Source: source, Target: target, Interval: interval, mux: http.NewServeMux()}
	h.mux.Handle("/status.json", websocket.Handler(h.serveJSON))
	h.mux.Handle("/status", websocket.Handler(h.serveBinary))
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) stream(conn *websocket.Conn, send func(*telemetry.KernelStatus) error) {
	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()
	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()
	for {
		status, err := h.Source.Snapshot(ctx, h.Target)
		if err != nil {
			glog.V(2).Infof("websocket %s: %v", conn.Request().RemoteAddr, err)
			return
		}
		if err := send(status); err != nil {
			glog.V(2).Infof("websocket %s closed: %v", conn.Request().RemoteAddr, err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *Handler) serveJSON(conn *websocket.Conn) {
	h.stream(conn, func(status *telemetry.KernelStatus) error {
		return websocket.JSON.Send(conn, status)
	})
}

func (h *Handler) serveBinary(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	rw := New(conn)
	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()
	replyCh := make(chan []byte, 1)
	go func() {
		defer cancel()
		for {
			pkt, err := rw.ReadPacket()
			if err != nil {
				return
			}
			reply, err := h.Source.HandlePacket(ctx, h.Target, pkt)
			if err != nil {
				glog.Warningf("websocket bad command: %v", err)
				continue
			}
			select {
			case replyCh <- reply:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()
	for {
		var pkt []byte
		select {
		case <-ctx.Done():
			return
		case pkt = <-replyCh:
		case <-ticker.C:
			status, err := h.Source.Snapshot(ctx, h.Target)
			if err != nil {
				return
			}
			if pkt, err = telemetry.Encode(status); err != nil {
				glog.Errorf("encode status: %v", err)
				return
			}
		}
		if err := rw.WritePacket(pkt); err != nil {
			return
		}
	}
}

// Server serves a Handler on an address.
type Server struct {
	Addr    string
	Handler http.Handler

	listener net.Listener
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "websocket"
}

// Listen binds the address ahead of Run. It is optional.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, err
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	server := &http.Server{Handler: s.Handler}
	glog.Infof("websocket listening on %s", s.listener.Addr())
	err := fx.RunWithContextCloser(ctx, server, func() error {
		return server.Serve(s.listener)
	})
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
