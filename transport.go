package bytesocket

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// TransportHandler receives the notifications of one Link.
// Calls may arrive on any goroutine but never concurrently for the same link.
type TransportHandler interface {
	// OnOpen reports that the connection is established.
	OnOpen()
	// OnData delivers inbound bytes. The handler owns p.
	OnData(p []byte)
	// OnError reports a failure; no further calls follow.
	OnError(err error)
	// OnClosed reports an orderly end of the connection, initiated by either
	// side; no further calls follow.
	OnClosed()
}

// Transport opens byte-stream connections.
type Transport interface {
	// Open starts connecting to host:port and returns without waiting.
	// The outcome is reported to h.
	Open(host string, port int, h TransportHandler) Link
}

// Link is one connection opened by a Transport.
type Link interface {
	// Send queues p for transmission after previously sent bytes.
	// It does not wait for the network.
	Send(p []byte)
	// Shutdown aborts a pending open or closes the connection after queued
	// bytes were written. The handler is told through OnClosed or OnError.
	Shutdown()
}

// errShutdown stops the write loop after Shutdown.
var errShutdown = errors.New("link shut down")

// TCPTransport is the Transport backed by net.Dialer.
type TCPTransport struct {
	opts tcpOptions
}

// NewTCPTransport creates a TCP transport with the given options.
func NewTCPTransport(opt ...TCPOption) *TCPTransport {
	var opts tcpOptions
	for _, o := range opt {
		o(&opts)
	}
	checkTCPOptions(&opts)

	return &TCPTransport{opts: opts}
}

// Open implements Transport.
func (t *TCPTransport) Open(host string, port int, h TransportHandler) Link {
	ctx, cancel := context.WithCancel(context.Background())
	l := &tcpLink{
		addr:       net.JoinHostPort(host, strconv.Itoa(port)),
		opts:       t.opts,
		logger:     t.opts.logger,
		handler:    h,
		cancelDial: cancel,
		notify:     make(chan struct{}, 1),
	}

	go l.run(ctx)

	return l
}

// tcpLink owns one TCP connection and its read and write loops.
type tcpLink struct {
	addr    string
	opts    tcpOptions
	logger  Logger
	handler TransportHandler

	cancelDial context.CancelFunc
	closed     atomic.Bool

	mu      sync.Mutex
	pending []byte
	notify  chan struct{}
}

// Send implements Link.
func (l *tcpLink) Send(p []byte) {
	if len(p) == 0 {
		return
	}

	l.mu.Lock()
	if l.closed.Load() {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, p...)
	l.mu.Unlock()

	l.signal()
}

// Shutdown implements Link. Safe to call multiple times.
func (l *tcpLink) Shutdown() {
	l.mu.Lock()
	already := l.closed.Swap(true)
	l.mu.Unlock()

	if already {
		return
	}
	l.cancelDial()
	l.signal()
}

func (l *tcpLink) signal() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// takePending returns the queued bytes and whether the link was shut down.
// Once it reports closed, nothing more can be queued.
func (l *tcpLink) takePending() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := l.pending
	l.pending = nil
	return data, l.closed.Load()
}

// run dials, reports the outcome and then serves the connection until it ends.
func (l *tcpLink) run(dialCtx context.Context) {
	dialer := &net.Dialer{KeepAlive: l.opts.keepAlive}
	conn, err := dialer.DialContext(dialCtx, "tcp", l.addr)
	l.cancelDial()
	if err != nil {
		if l.closed.Load() {
			l.handler.OnClosed()
			return
		}
		l.logger.Debug("dial failed", "addr", l.addr, "error", err)
		l.handler.OnError(errors.Wrap(err, "dial"))
		return
	}
	if l.closed.Load() {
		_ = conn.Close()
		l.handler.OnClosed()
		return
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(l.opts.noDelay)
	}

	l.logger.Debug("link established", "addr", l.addr, "local_addr", conn.LocalAddr())
	l.handler.OnOpen()

	err = l.serve(conn)
	switch {
	case err == nil, errors.Is(err, errShutdown), errors.Is(err, io.EOF):
		l.logger.Debug("link closed", "addr", l.addr)
		l.handler.OnClosed()
	default:
		l.logger.Debug("link closed with error", "addr", l.addr, "error", err)
		l.handler.OnError(err)
	}
}

// serve runs the read and write loops until one of them ends, then closes conn.
func (l *tcpLink) serve(conn net.Conn) error {
	group, ctx := errgroup.WithContext(context.Background())
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	group.Go(func() error {
		return l.readLoop(ctx, conn)
	})

	group.Go(func() error {
		return l.writeLoop(ctx, conn)
	})

	err := group.Wait()
	_ = conn.Close()

	return err
}

// readLoop delivers inbound chunks until the peer closes or reading fails.
func (l *tcpLink) readLoop(ctx context.Context, conn net.Conn) error {
	buf := make([]byte, l.opts.readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			l.handler.OnData(chunk)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return errors.Wrap(err, "read")
		}
	}
}

// writeLoop writes queued bytes in order. After Shutdown it writes everything
// queued before the shutdown and stops.
func (l *tcpLink) writeLoop(ctx context.Context, conn net.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.notify:
		}

		// Bytes queued while a write was in flight are picked up here, so a
		// Shutdown that arrives meanwhile still sees them written.
		for {
			data, closed := l.takePending()
			if len(data) == 0 {
				if closed {
					return errShutdown
				}
				break
			}
			if _, err := conn.Write(data); err != nil {
				return errors.Wrap(err, "write")
			}
		}
	}
}
