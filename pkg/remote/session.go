package remote

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/conradklek/webs/pkg/protocol"
	"github.com/conradklek/webs/pkg/vdom"
)

// Config controls session timeouts and queue sizes.
type Config struct {
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PingInterval  time.Duration
	MaxEventQueue int
}

// DefaultConfig returns the timeouts a production session runs with.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:   60 * time.Second,
		WriteTimeout:  10 * time.Second,
		PingInterval:  25 * time.Second,
		MaxEventQueue: 256,
	}
}

// ErrEventQueueFull is reported when the client produces events faster
// than the session loop consumes them.
var ErrEventQueueFull = errors.New("remote: event queue full")

// Session owns one live connection: the remote host, the patch engine
// driving it, and the read/ping/event goroutines.
type Session struct {
	conn *websocket.Conn
	cfg  Config
	log  zerolog.Logger

	host    *Host
	patcher *vdom.Patcher

	mu      sync.Mutex // guards conn writes
	sendSeq atomic.Uint64
	ackSeq  atomic.Uint64
	closed  atomic.Bool

	events chan *protocol.Event
	done   chan struct{}

	root *vdom.VNode
}

// NewSession wraps an upgraded websocket connection. The environment is
// shared application state; each session gets its own host and patcher.
func NewSession(conn *websocket.Conn, env *vdom.Env, cfg Config, log zerolog.Logger) *Session {
	host := NewHost()
	return &Session{
		conn:    conn,
		cfg:     cfg,
		log:     log,
		host:    host,
		patcher: vdom.NewPatcher(env, host),
		events:  make(chan *protocol.Event, cfg.MaxEventQueue),
		done:    make(chan struct{}),
	}
}

// Host returns the session's remote host.
func (s *Session) Host() *Host { return s.host }

// Patcher returns the patch engine bound to this session.
func (s *Session) Patcher() *vdom.Patcher { return s.patcher }

// AckedSeq returns the last ops sequence the client acknowledged.
func (s *Session) AckedSeq() uint64 { return s.ackSeq.Load() }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Mount renders the component into the client's mount container and
// sends the initial ops batch.
func (s *Session) Mount(def *vdom.Definition, props map[string]any) error {
	s.root = vdom.Comp(def, vdom.Props(props))
	s.patcher.Mount(s.root, s.host.Root())
	return s.FlushOps()
}

// Start launches the session goroutines. Call after Mount.
func (s *Session) Start() {
	go s.readLoop()
	go s.pingLoop()
	go s.eventLoop()
}

// Close tears down the render tree and the connection. Safe to call more
// than once.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	if s.root != nil {
		s.patcher.Unmount(s.root)
	}
	s.conn.Close()
}

// readLoop decodes incoming frames until the connection drops.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Error().Err(err).Msg("read error")
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.log.Error().Err(err).Msg("frame decode error")
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame)
		case protocol.FrameControl:
			s.handleControlFrame(frame)
		case protocol.FrameAck:
			s.handleAckFrame(frame)
		default:
			s.log.Warn().Stringer("type", frame.Type).Msg("unknown frame type")
		}
	}
}

func (s *Session) handleEventFrame(frame *protocol.Frame) {
	ev, err := protocol.DecodeEvent(frame)
	if err != nil {
		s.log.Error().Err(err).Msg("event decode error")
		s.sendError("invalid_event", "event frame malformed", false)
		return
	}
	select {
	case s.events <- ev:
	default:
		s.sendError("rate_limited", ErrEventQueueFull.Error(), false)
	}
}

func (s *Session) handleControlFrame(frame *protocol.Frame) {
	ctl, err := protocol.DecodeControl(frame)
	if err != nil {
		s.log.Error().Err(err).Msg("control decode error")
		return
	}
	switch ctl.Kind {
	case protocol.ControlPing:
		s.sendControl(protocol.ControlPong)
	case protocol.ControlPong:
		// Keepalive answered; nothing to update.
	case protocol.ControlResync:
		// No op history is kept; the client reloads for a fresh tree.
		s.log.Warn().Msg("resync requested, client should reload")
		s.sendError("resync_unsupported", "reload to resynchronize", true)
	}
}

func (s *Session) handleAckFrame(frame *protocol.Frame) {
	ack, err := protocol.DecodeAck(frame)
	if err != nil {
		s.log.Error().Err(err).Msg("ack decode error")
		return
	}
	s.ackSeq.Store(ack.Seq)
}

// eventLoop serializes all handler execution and re-rendering: one event
// runs to completion, the patcher flushes, and the resulting ops go out
// as one batch.
func (s *Session) eventLoop() {
	for {
		select {
		case ev := <-s.events:
			if !s.host.HandleEvent(ev) {
				s.log.Debug().Uint64("node", ev.Node).Str("event", ev.Name).
					Msg("event for unknown node or handler")
				continue
			}
			s.patcher.Flush()
			if err := s.FlushOps(); err != nil {
				s.log.Error().Err(err).Msg("ops write failed")
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendControl(protocol.ControlPing); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// FlushOps drains the host's op buffer into one sequenced frame.
func (s *Session) FlushOps() error {
	ops := s.host.TakeOps()
	if len(ops) == 0 {
		return nil
	}
	frame, err := protocol.EncodeOps(&protocol.OpsBatch{
		Seq: s.sendSeq.Add(1),
		Ops: ops,
	})
	if err != nil {
		return err
	}
	return s.writeFrame(frame)
}

func (s *Session) sendControl(kind protocol.ControlKind) error {
	frame, err := protocol.EncodeControl(&protocol.Control{Kind: kind})
	if err != nil {
		return err
	}
	return s.writeFrame(frame)
}

func (s *Session) sendError(code, message string, fatal bool) {
	frame, err := protocol.EncodeError(&protocol.ErrorMessage{
		Code: code, Message: message, Fatal: fatal,
	})
	if err != nil {
		return
	}
	if err := s.writeFrame(frame); err == nil && fatal {
		s.Close()
	}
}

func (s *Session) writeFrame(frame *protocol.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return errors.New("remote: session closed")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}
