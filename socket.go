// Package bytesocket provides a buffered, event-driven binary TCP client socket.
// Inbound bytes are buffered and consumed through typed, endian-aware reads
// that never return a partially decoded value. Outbound typed writes are
// buffered until Flush hands them to the transport. Connection progress is
// reported asynchronously through connect, close, ioError and socketData events.
package bytesocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/pkg/errors"
)

// State is the lifecycle state of a Socket.
type State uint8

const (
	// StateClosed is the initial state and the state after an orderly close.
	StateClosed State = iota
	// StateConnecting means a connect attempt is pending.
	StateConnecting
	// StateConnected means the transport confirmed the connection.
	StateConnected
	// StateClosing means Close was called and the transport is shutting down.
	StateClosing
	// StateFailed means the last connection attempt or connection failed.
	StateFailed
)

var stateNames = [...]string{
	StateClosed:     "closed",
	StateConnecting: "connecting",
	StateConnected:  "connected",
	StateClosing:    "closing",
	StateFailed:     "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func parseState(name string) State {
	for s, n := range stateNames {
		if n == name {
			return State(s)
		}
	}
	return StateFailed
}

// Lifecycle events fed to the state machine.
const (
	eventConnect = "connect"
	eventOpen    = "open"
	eventFail    = "fail"
	eventClose   = "close"
	eventAbort   = "abort"
	eventClosed  = "closed"
)

var lifecycle = fsm.Events{
	{Name: eventConnect, Src: []string{StateClosed.String(), StateFailed.String()}, Dst: StateConnecting.String()},
	{Name: eventOpen, Src: []string{StateConnecting.String()}, Dst: StateConnected.String()},
	{Name: eventFail, Src: []string{StateConnecting.String(), StateConnected.String(), StateClosing.String()}, Dst: StateFailed.String()},
	{Name: eventClose, Src: []string{StateConnected.String()}, Dst: StateClosing.String()},
	{Name: eventAbort, Src: []string{StateConnecting.String()}, Dst: StateClosed.String()},
	{Name: eventClosed, Src: []string{StateConnected.String(), StateClosing.String()}, Dst: StateClosed.String()},
}

// Socket is a buffered binary TCP client connection.
//
// Public methods are safe for concurrent use. Transport notifications are
// applied in arrival order on an internal event queue, and events are
// dispatched from that queue without locks held, so listeners may call back
// into the socket.
type Socket struct {
	id     string
	logger Logger
	opts   options

	mu             sync.Mutex
	machine        *fsm.FSM
	timeout        time.Duration
	endian         Endian
	objectEncoding ObjectEncoding
	in             *ReceiveBuffer
	out            *SendBuffer
	guard          *timeoutGuard
	link           Link
	gen            uint64

	queue    eventQueue
	dispatch func(task func())
}

// New creates a closed socket. It does not connect.
func New(opt ...Option) *Socket {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	s := &Socket{
		id:             uuid.NewString(),
		opts:           opts,
		timeout:        opts.timeout,
		objectEncoding: opts.objectEncoding,
		in:             NewReceiveBuffer(opts.charset),
		out:            NewSendBuffer(opts.charset),
		guard:          newTimeoutGuard(),
	}
	s.logger = loggerWith(opts.logger, "socket_id", s.id)
	s.dispatch = s.queue.push
	s.setEndian(opts.endian)
	s.machine = fsm.NewFSM(StateClosed.String(), lifecycle, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			s.logger.Debug("socket state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
		},
	})

	return s
}

// Dial creates a socket and starts connecting it to host:port.
func Dial(host string, port int, opt ...Option) (*Socket, error) {
	s := New(opt...)
	if err := s.Connect(host, port); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the identifier attached to the socket's log records.
func (s *Socket) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Connected reports whether the socket is in StateConnected.
func (s *Socket) Connected() bool {
	return s.State() == StateConnected
}

// Timeout returns the connect timeout.
func (s *Socket) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// SetTimeout sets the connect timeout used by the next Connect.
// Values below MinTimeout are raised to MinTimeout.
func (s *Socket) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = clampTimeout(d)
}

// Endian returns the byte order of typed reads and writes.
func (s *Socket) Endian() Endian {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endian
}

// SetEndian sets the byte order of subsequent typed reads and writes.
func (s *Socket) SetEndian(e Endian) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setEndian(e)
}

func (s *Socket) setEndian(e Endian) {
	s.endian = e
	s.in.SetEndian(e)
	s.out.SetEndian(e)
}

// ObjectEncoding returns the tag passed to the object codec.
func (s *Socket) ObjectEncoding() ObjectEncoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objectEncoding
}

// SetObjectEncoding sets the tag passed to the object codec.
func (s *Socket) SetObjectEncoding(enc ObjectEncoding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectEncoding = enc
}

// BytesAvailable returns the number of received bytes not yet read.
func (s *Socket) BytesAvailable() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.Available()
}

// BytesPending returns the number of written bytes not yet flushed.
func (s *Socket) BytesPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Pending()
}

// Connect starts connecting to host:port and returns immediately. Success is
// reported by an EventConnect, failure or timeout by an EventIOError.
//
// Connect returns ErrArgument for an empty host or a port outside 1-65535,
// and ErrIllegalState unless the socket is closed or failed. A failed socket
// is re-armed by Connect like a closed one.
func (s *Socket) Connect(host string, port int) error {
	if host == "" {
		return errors.Wrap(ErrArgument, "host is empty")
	}
	if port < 1 || port > 65535 {
		return errors.Wrapf(ErrArgument, "port %d out of range", port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Event(context.Background(), eventConnect); err != nil {
		return errors.Wrapf(ErrIllegalState, "already %s", s.state())
	}

	s.gen++
	gen := s.gen
	s.logger.Info("connecting", "host", host, "port", port, "timeout", s.timeout)

	s.guard.Arm(s.timeout, func() {
		s.dispatch(func() { s.handleTimeout(gen) })
	})
	s.link = s.opts.transport.Open(host, port, &linkHandler{s: s, gen: gen})

	return nil
}

// Close closes the connection. While connecting, the attempt is abandoned
// without an event. While connected, the transport is shut down and an
// EventClose follows once it has closed. Close is a no-op otherwise.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state() {
	case StateConnecting:
		s.guard.Cancel()
		s.transition(eventAbort)
		s.link.Shutdown()
		s.release()
		s.logger.Info("connect abandoned")
	case StateConnected:
		s.transition(eventClose)
		s.link.Shutdown()
	}

	return nil
}

// Flush hands all written bytes to the transport in write order.
// It returns ErrIO unless the socket is connected.
func (s *Socket) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state() != StateConnected {
		return errors.Wrap(ErrIO, "socket not connected")
	}
	if data := s.out.Drain(); len(data) > 0 {
		s.link.Send(data)
	}
	return nil
}

func (s *Socket) state() State {
	return parseState(s.machine.Current())
}

// transition applies a lifecycle event whose source state was already checked.
func (s *Socket) transition(event string) {
	if err := s.machine.Event(context.Background(), event); err != nil {
		s.logger.Warn("unexpected state transition", "event", event, "state", s.machine.Current(), "error", err)
	}
}

// release clears both buffers and forgets the link.
func (s *Socket) release() {
	s.in.Reset()
	s.out.Reset()
	s.link = nil
}

func (s *Socket) emit(ev Event) {
	s.opts.dispatcher.Dispatch(ev)
}

// current reports whether gen is the active connect attempt. Callers hold s.mu.
func (s *Socket) current(gen uint64) bool {
	return gen == s.gen
}

func (s *Socket) handleOpen(gen uint64) {
	s.mu.Lock()
	if !s.current(gen) || s.state() != StateConnecting {
		s.mu.Unlock()
		s.logger.Debug("stale open ignored", "gen", gen)
		return
	}
	s.guard.Cancel()
	s.transition(eventOpen)
	s.mu.Unlock()

	s.logger.Info("connected")
	s.emit(Event{Type: EventConnect})
}

func (s *Socket) handleData(gen uint64, p []byte) {
	s.mu.Lock()
	if !s.current(gen) || s.state() != StateConnected {
		s.mu.Unlock()
		s.logger.Debug("data dropped", "gen", gen, "bytes", len(p))
		return
	}
	s.in.Append(p)
	s.mu.Unlock()

	s.emit(Event{Type: EventSocketData, Bytes: len(p)})
}

func (s *Socket) handleError(gen uint64, cause error) {
	s.mu.Lock()
	if !s.current(gen) {
		s.mu.Unlock()
		return
	}
	switch s.state() {
	case StateConnecting, StateConnected, StateClosing:
	default:
		s.mu.Unlock()
		return
	}
	op := "connection"
	if s.state() == StateConnecting {
		op = "connect"
	}
	s.guard.Cancel()
	s.transition(eventFail)
	s.release()
	s.mu.Unlock()

	err := ioError(op, cause)
	s.logger.Info("socket failed", "error", err)
	s.emit(Event{Type: EventIOError, Err: err})
}

func (s *Socket) handleClosed(gen uint64) {
	s.mu.Lock()
	if !s.current(gen) {
		s.mu.Unlock()
		return
	}
	switch s.state() {
	case StateConnected, StateClosing:
		s.transition(eventClosed)
		s.release()
		s.mu.Unlock()

		s.logger.Info("connection closed")
		s.emit(Event{Type: EventClose})
	case StateConnecting:
		s.mu.Unlock()
		s.handleError(gen, errors.New("connection closed before it was established"))
	default:
		s.mu.Unlock()
	}
}

func (s *Socket) handleTimeout(gen uint64) {
	s.mu.Lock()
	if !s.current(gen) || s.state() != StateConnecting {
		s.mu.Unlock()
		return
	}
	s.transition(eventFail)
	s.link.Shutdown()
	s.release()
	s.mu.Unlock()

	err := ioError("connect", ErrConnectTimeout)
	s.logger.Info("socket failed", "error", err)
	s.emit(Event{Type: EventIOError, Err: err})
}

// linkHandler forwards the notifications of one connect attempt to the
// socket's event queue.
type linkHandler struct {
	s   *Socket
	gen uint64
}

func (h *linkHandler) OnOpen() {
	h.s.dispatch(func() { h.s.handleOpen(h.gen) })
}

func (h *linkHandler) OnData(p []byte) {
	h.s.dispatch(func() { h.s.handleData(h.gen, p) })
}

func (h *linkHandler) OnError(err error) {
	h.s.dispatch(func() { h.s.handleError(h.gen, err) })
}

func (h *linkHandler) OnClosed() {
	h.s.dispatch(func() { h.s.handleClosed(h.gen) })
}
