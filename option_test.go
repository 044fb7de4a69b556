package bytesocket

import (
	"testing"
	"time"
)

func TestTimeoutOption(t *testing.T) {
	var opts options
	TimeoutOption(5 * time.Second)(&opts)

	if opts.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want %v", opts.timeout, 5*time.Second)
	}
}

func TestTimeoutOption_Clamped(t *testing.T) {
	var opts options
	TimeoutOption(10 * time.Millisecond)(&opts)

	if opts.timeout != MinTimeout {
		t.Errorf("timeout = %v, want %v", opts.timeout, MinTimeout)
	}
}

func TestEndianOption(t *testing.T) {
	var opts options
	EndianOption(LittleEndian)(&opts)

	if opts.endian != LittleEndian {
		t.Errorf("endian = %s, want %s", opts.endian, LittleEndian)
	}
}

func TestObjectEncodingOption(t *testing.T) {
	var opts options
	ObjectEncodingOption(ObjectJSON)(&opts)

	if opts.objectEncoding != ObjectJSON {
		t.Errorf("objectEncoding = %s, want %s", opts.objectEncoding, ObjectJSON)
	}
}

func TestTransportOption(t *testing.T) {
	tr := &fakeTransport{}
	var opts options
	TransportOption(tr)(&opts)

	if opts.transport != tr {
		t.Error("transport not set correctly")
	}
}

func TestOnEventOption(t *testing.T) {
	called := false
	var opts options
	OnEventOption(func(Event) { called = true })(&opts)

	if opts.dispatcher == nil {
		t.Fatal("dispatcher is nil")
	}

	// Call to verify it's the right function
	opts.dispatcher.Dispatch(Event{Type: EventClose})
	if !called {
		t.Error("event callback not called")
	}
}

func TestObjectCodecOption(t *testing.T) {
	var opts options
	ObjectCodecOption(failingCodec{})(&opts)

	if _, ok := opts.objectCodec.(failingCodec); !ok {
		t.Errorf("objectCodec = %T, want failingCodec", opts.objectCodec)
	}
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}
	var opts options
	LoggerOption(logger)(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestCheckOptions_Defaults(t *testing.T) {
	var opts options
	checkOptions(&opts)

	if opts.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", opts.timeout, DefaultTimeout)
	}
	if opts.endian != BigEndian {
		t.Errorf("endian = %s, want %s", opts.endian, BigEndian)
	}
	if opts.objectEncoding != ObjectCBOR {
		t.Errorf("objectEncoding = %s, want %s", opts.objectEncoding, ObjectCBOR)
	}
	if opts.logger == nil {
		t.Error("logger is nil")
	}
	if _, ok := opts.transport.(*TCPTransport); !ok {
		t.Errorf("transport = %T, want *TCPTransport", opts.transport)
	}
	if _, ok := opts.dispatcher.(*Emitter); !ok {
		t.Errorf("dispatcher = %T, want *Emitter", opts.dispatcher)
	}
	if _, ok := opts.objectCodec.(StandardObjectCodec); !ok {
		t.Errorf("objectCodec = %T, want StandardObjectCodec", opts.objectCodec)
	}
	if _, ok := opts.charset.(TextCharset); !ok {
		t.Errorf("charset = %T, want TextCharset", opts.charset)
	}
}

func TestCheckOptions_KeepsValues(t *testing.T) {
	logger := &mockLogger{}
	tr := &fakeTransport{}
	d := NewEmitter()

	var opts options
	for _, opt := range []Option{
		TimeoutOption(time.Minute),
		LoggerOption(logger),
		TransportOption(tr),
		DispatcherOption(d),
		CharsetOption(upperCharset{}),
	} {
		opt(&opts)
	}
	checkOptions(&opts)

	if opts.timeout != time.Minute {
		t.Errorf("timeout = %v, want %v", opts.timeout, time.Minute)
	}
	if opts.logger != logger {
		t.Error("logger replaced")
	}
	if opts.transport != tr {
		t.Error("transport replaced")
	}
	if opts.dispatcher != d {
		t.Error("dispatcher replaced")
	}
	if _, ok := opts.charset.(upperCharset); !ok {
		t.Errorf("charset = %T, want upperCharset", opts.charset)
	}
}

func TestTCPOptions(t *testing.T) {
	logger := &mockLogger{}

	var opts tcpOptions
	for _, opt := range []TCPOption{
		ReadBufferSizeOption(512),
		NoDelayOption(true),
		KeepAliveOption(-1),
		TCPLoggerOption(logger),
	} {
		opt(&opts)
	}
	checkTCPOptions(&opts)

	if opts.readBufferSize != 512 {
		t.Errorf("readBufferSize = %d, want 512", opts.readBufferSize)
	}
	if !opts.noDelay {
		t.Error("noDelay not set")
	}
	if opts.keepAlive != -1 {
		t.Errorf("keepAlive = %v, want -1", opts.keepAlive)
	}
	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestCheckTCPOptions_Defaults(t *testing.T) {
	opts := tcpOptions{readBufferSize: -5}
	checkTCPOptions(&opts)

	if opts.readBufferSize != defaultReadBufferSize {
		t.Errorf("readBufferSize = %d, want %d", opts.readBufferSize, defaultReadBufferSize)
	}
	if opts.keepAlive != defaultKeepAlive {
		t.Errorf("keepAlive = %v, want %v", opts.keepAlive, defaultKeepAlive)
	}
}
