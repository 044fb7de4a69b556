package bytesocket

import (
	"time"
)

// Default configuration values.
const (
	// MinTimeout is the smallest accepted connect timeout.
	MinTimeout = 250 * time.Millisecond
	// DefaultTimeout is the connect timeout of a new socket.
	DefaultTimeout = 20 * time.Second
	// defaultReadBufferSize is the size of a single transport read.
	defaultReadBufferSize = 2048
	// defaultKeepAlive is the TCP keep-alive period.
	defaultKeepAlive = 15 * time.Second
)

// options holds the configuration for a socket.
type options struct {
	transport   Transport
	dispatcher  Dispatcher
	objectCodec ObjectCodec
	charset     Charset
	logger      Logger

	timeout        time.Duration
	endian         Endian
	objectEncoding ObjectEncoding
}

// Option is a function that configures socket options.
type Option func(*options)

// checkOptions sets default values for socket options.
func checkOptions(opts *options) {
	if opts.timeout == 0 {
		opts.timeout = DefaultTimeout
	}
	opts.timeout = clampTimeout(opts.timeout)

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	if opts.transport == nil {
		opts.transport = NewTCPTransport(TCPLoggerOption(opts.logger))
	}

	if opts.dispatcher == nil {
		opts.dispatcher = NewEmitter()
	}

	if opts.objectCodec == nil {
		opts.objectCodec = StandardObjectCodec{}
	}

	if opts.charset == nil {
		opts.charset = TextCharset{}
	}
}

func clampTimeout(d time.Duration) time.Duration {
	if d < MinTimeout {
		return MinTimeout
	}
	return d
}

// TimeoutOption returns an Option that sets the connect timeout.
// Values below MinTimeout are raised to MinTimeout.
func TimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = clampTimeout(timeout)
	}
}

// EndianOption returns an Option that sets the initial byte order.
func EndianOption(e Endian) Option {
	return func(o *options) {
		o.endian = e
	}
}

// ObjectEncodingOption returns an Option that sets the initial object encoding.
func ObjectEncodingOption(enc ObjectEncoding) Option {
	return func(o *options) {
		o.objectEncoding = enc
	}
}

// TransportOption returns an Option that sets the transport used by Connect.
// If not set, a TCPTransport with default options is used.
func TransportOption(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// DispatcherOption returns an Option that sets the event dispatcher.
// If not set, an Emitter without listeners is used.
func DispatcherOption(d Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// OnEventOption returns an Option that delivers every event to cb.
func OnEventOption(cb func(Event)) Option {
	return func(o *options) {
		o.dispatcher = DispatcherFunc(cb)
	}
}

// ObjectCodecOption returns an Option that sets the codec used by
// ReadObject and WriteObject. If not set, StandardObjectCodec is used.
func ObjectCodecOption(c ObjectCodec) Option {
	return func(o *options) {
		o.objectCodec = c
	}
}

// CharsetOption returns an Option that sets the charset codec used by string
// reads and writes. If not set, TextCharset is used.
func CharsetOption(c Charset) Option {
	return func(o *options) {
		o.charset = c
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// tcpOptions holds the configuration for a TCPTransport.
type tcpOptions struct {
	logger Logger

	readBufferSize int           // size of a single read
	noDelay        bool          // disable Nagle's algorithm
	keepAlive      time.Duration // keep-alive period, negative disables
}

// TCPOption is a function that configures TCP transport options.
type TCPOption func(*tcpOptions)

// checkTCPOptions sets default values for TCP transport options.
func checkTCPOptions(opts *tcpOptions) {
	if opts.readBufferSize <= 0 {
		opts.readBufferSize = defaultReadBufferSize
	}

	if opts.keepAlive == 0 {
		opts.keepAlive = defaultKeepAlive
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}

// ReadBufferSizeOption returns a TCPOption that sets the size of a single read.
// Larger reads deliver bigger socketData chunks.
func ReadBufferSizeOption(size int) TCPOption {
	return func(o *tcpOptions) {
		o.readBufferSize = size
	}
}

// NoDelayOption returns a TCPOption that controls Nagle's algorithm.
// With noDelay set, every flush is written to the wire immediately.
func NoDelayOption(noDelay bool) TCPOption {
	return func(o *tcpOptions) {
		o.noDelay = noDelay
	}
}

// KeepAliveOption returns a TCPOption that sets the TCP keep-alive period.
// A negative period disables keep-alive probes.
func KeepAliveOption(period time.Duration) TCPOption {
	return func(o *tcpOptions) {
		o.keepAlive = period
	}
}

// TCPLoggerOption returns a TCPOption that sets the logger.
func TCPLoggerOption(logger Logger) TCPOption {
	return func(o *tcpOptions) {
		o.logger = logger
	}
}
