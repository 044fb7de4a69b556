package bytesocket

import (
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrArgument is returned for invalid arguments, before any state change.
	ErrArgument = errors.New("invalid argument")
	// ErrIllegalState is returned when an operation is not valid in the current state.
	ErrIllegalState = errors.New("illegal state")
	// ErrEOF is returned when a read needs more bytes than are buffered.
	// The buffer is left untouched and the read may be retried later.
	ErrEOF = errors.New("not enough buffered data")
	// ErrIO reports a transport failure.
	ErrIO = errors.New("i/o error")
	// ErrCodec reports bytes that could not be decoded or a value that could not be encoded.
	ErrCodec = errors.New("codec error")
)

// ErrConnectTimeout is the cause of the ioError event fired when a connect
// attempt outlives the socket timeout.
var ErrConnectTimeout = errors.New("connect timed out")

// OpError is an ErrIO or ErrCodec failure with its operation and cause.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	return "socket: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the error kind.
func (e *OpError) Is(target error) bool {
	return target == e.Kind
}

func ioError(op string, err error) error {
	return &OpError{Kind: ErrIO, Op: op, Err: err}
}

func codecError(op string, err error) error {
	return &OpError{Kind: ErrCodec, Op: op, Err: err}
}

// eofError reports that want bytes are needed while only have are buffered.
func eofError(what string, want, have int) error {
	return errors.Wrapf(ErrEOF, "%s needs %d bytes, %d buffered", what, want, have)
}
