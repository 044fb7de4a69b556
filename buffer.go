package bytesocket

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// utfPrefixSize is the size of the length prefix written before UTF strings.
	utfPrefixSize = 2
	// maxUTFLength is the largest UTF payload a prefix can describe.
	maxUTFLength = 1<<16 - 1
	// objectPrefixSize is the size of the length prefix written before objects.
	objectPrefixSize = 4
	// compactThreshold is the consumed prefix size that triggers compaction.
	compactThreshold = 4096
)

// ReceiveBuffer accumulates inbound bytes and hands them out through typed reads.
//
// Reads are all-or-nothing: a read that needs more bytes than are buffered
// returns ErrEOF and leaves the buffer untouched. ReceiveBuffer is not safe
// for concurrent use; Socket serializes access to it.
type ReceiveBuffer struct {
	buf     []byte
	off     int
	endian  Endian
	codec   codec
	charset Charset
}

// NewReceiveBuffer creates an empty big-endian buffer.
// A nil charset selects TextCharset.
func NewReceiveBuffer(charset Charset) *ReceiveBuffer {
	if charset == nil {
		charset = TextCharset{}
	}
	return &ReceiveBuffer{
		endian:  BigEndian,
		codec:   codecFor(BigEndian),
		charset: charset,
	}
}

// Endian returns the byte order used by subsequent reads.
func (b *ReceiveBuffer) Endian() Endian { return b.endian }

// SetEndian changes the byte order used by subsequent reads.
func (b *ReceiveBuffer) SetEndian(e Endian) {
	b.endian = e
	b.codec = codecFor(e)
}

// Append adds p to the tail of the buffer.
func (b *ReceiveBuffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Available returns the number of unread bytes.
func (b *ReceiveBuffer) Available() int {
	return len(b.buf) - b.off
}

// Reset discards all buffered bytes.
func (b *ReceiveBuffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// peek returns the next n unread bytes without consuming them.
func (b *ReceiveBuffer) peek(what string, n int) ([]byte, error) {
	if have := b.Available(); have < n {
		return nil, eofError(what, n, have)
	}
	return b.buf[b.off : b.off+n], nil
}

func (b *ReceiveBuffer) skip(n int) {
	b.off += n
	b.compact()
}

// next consumes the window for one value of kind k. The window is copied
// out because skip may compact the backing array.
func (b *ReceiveBuffer) next(k Kind) ([]byte, error) {
	p, err := b.peek(k.String(), k.Width())
	if err != nil {
		return nil, err
	}
	var w [8]byte
	n := copy(w[:], p)
	b.skip(n)
	return w[:n], nil
}

// compact drops the consumed prefix once it dominates the backing array.
func (b *ReceiveBuffer) compact() {
	switch {
	case b.off == len(b.buf):
		b.Reset()
	case b.off >= compactThreshold && b.off > len(b.buf)/2:
		n := copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:n]
		b.off = 0
	}
}

// ReadBool reads one byte; any non-zero value is true.
func (b *ReceiveBuffer) ReadBool() (bool, error) {
	p, err := b.next(KindBool)
	if err != nil {
		return false, err
	}
	return b.codec.bool(p), nil
}

// ReadInt8 reads a signed byte.
func (b *ReceiveBuffer) ReadInt8() (int8, error) {
	p, err := b.next(KindInt8)
	if err != nil {
		return 0, err
	}
	return b.codec.int8(p), nil
}

// ReadUint8 reads an unsigned byte.
func (b *ReceiveBuffer) ReadUint8() (uint8, error) {
	p, err := b.next(KindUint8)
	if err != nil {
		return 0, err
	}
	return b.codec.uint8(p), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (b *ReceiveBuffer) ReadInt16() (int16, error) {
	p, err := b.next(KindInt16)
	if err != nil {
		return 0, err
	}
	return b.codec.int16(p), nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (b *ReceiveBuffer) ReadUint16() (uint16, error) {
	p, err := b.next(KindUint16)
	if err != nil {
		return 0, err
	}
	return b.codec.uint16(p), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (b *ReceiveBuffer) ReadInt32() (int32, error) {
	p, err := b.next(KindInt32)
	if err != nil {
		return 0, err
	}
	return b.codec.int32(p), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (b *ReceiveBuffer) ReadUint32() (uint32, error) {
	p, err := b.next(KindUint32)
	if err != nil {
		return 0, err
	}
	return b.codec.uint32(p), nil
}

// ReadFloat32 reads an IEEE 754 single-precision float.
func (b *ReceiveBuffer) ReadFloat32() (float32, error) {
	p, err := b.next(KindFloat32)
	if err != nil {
		return 0, err
	}
	return b.codec.float32(p), nil
}

// ReadFloat64 reads an IEEE 754 double-precision float.
func (b *ReceiveBuffer) ReadFloat64() (float64, error) {
	p, err := b.next(KindFloat64)
	if err != nil {
		return 0, err
	}
	return b.codec.float64(p), nil
}

// ReadUTF reads a UTF-8 string preceded by an unsigned 16-bit byte length.
// Both the prefix and the payload must be buffered.
func (b *ReceiveBuffer) ReadUTF() (string, error) {
	prefix, err := b.peek("utf length", utfPrefixSize)
	if err != nil {
		return "", err
	}
	n := int(b.codec.uint16(prefix))
	frame, err := b.peek("utf string", utfPrefixSize+n)
	if err != nil {
		return "", err
	}
	s, err := b.decodeUTF(frame[utfPrefixSize:])
	if err != nil {
		return "", err
	}
	b.skip(len(frame))
	return s, nil
}

// ReadUTFBytes reads a UTF-8 string of exactly n bytes.
func (b *ReceiveBuffer) ReadUTFBytes(n int) (string, error) {
	if n < 0 {
		return "", errors.Wrapf(ErrArgument, "negative length %d", n)
	}
	p, err := b.peek("utf bytes", n)
	if err != nil {
		return "", err
	}
	s, err := b.decodeUTF(p)
	if err != nil {
		return "", err
	}
	b.skip(n)
	return s, nil
}

func (b *ReceiveBuffer) decodeUTF(p []byte) (string, error) {
	if !utf8.Valid(p) {
		return "", codecError("read utf", errors.New("invalid utf-8 sequence"))
	}
	s, err := b.charset.DecodeText(p, UTF8)
	if err != nil {
		return "", codecError("read utf", err)
	}
	return s, nil
}

// ReadMultiByte reads n bytes and decodes them with the named charset.
func (b *ReceiveBuffer) ReadMultiByte(n int, charset string) (string, error) {
	if n < 0 {
		return "", errors.Wrapf(ErrArgument, "negative length %d", n)
	}
	p, err := b.peek("multibyte string", n)
	if err != nil {
		return "", err
	}
	s, err := b.charset.DecodeText(p, charset)
	if err != nil {
		return "", codecError("read multibyte", err)
	}
	b.skip(n)
	return s, nil
}

// ReadBytes reads exactly n bytes.
func (b *ReceiveBuffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrArgument, "negative length %d", n)
	}
	p, err := b.peek("bytes", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	b.skip(n)
	return out, nil
}

// ReadRaw drains up to limit buffered bytes. It returns fewer bytes, possibly
// none, when less is buffered.
func (b *ReceiveBuffer) ReadRaw(limit int) []byte {
	n := min(b.Available(), limit)
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, b.buf[b.off:])
	b.skip(n)
	return out
}

// ReadObject decodes one object frame, an unsigned 32-bit length followed by
// the encoded payload, into v.
func (b *ReceiveBuffer) ReadObject(oc ObjectCodec, enc ObjectEncoding, v any) error {
	prefix, err := b.peek("object length", objectPrefixSize)
	if err != nil {
		return err
	}
	n := uint64(b.codec.uint32(prefix))
	if have := uint64(b.Available() - objectPrefixSize); have < n {
		return errors.Wrapf(ErrEOF, "object needs %d bytes, %d buffered", n, have)
	}
	frame := b.buf[b.off : b.off+objectPrefixSize+int(n)]
	if err := oc.Decode(frame[objectPrefixSize:], enc, v); err != nil {
		return codecError("read object", err)
	}
	b.skip(len(frame))
	return nil
}

// SendBuffer accumulates outbound typed writes until they are drained.
// SendBuffer is not safe for concurrent use.
type SendBuffer struct {
	buf     []byte
	endian  Endian
	codec   codec
	charset Charset
}

// NewSendBuffer creates an empty big-endian buffer.
// A nil charset selects TextCharset.
func NewSendBuffer(charset Charset) *SendBuffer {
	if charset == nil {
		charset = TextCharset{}
	}
	return &SendBuffer{
		endian:  BigEndian,
		codec:   codecFor(BigEndian),
		charset: charset,
	}
}

// Endian returns the byte order used by subsequent writes.
func (b *SendBuffer) Endian() Endian { return b.endian }

// SetEndian changes the byte order used by subsequent writes.
func (b *SendBuffer) SetEndian(e Endian) {
	b.endian = e
	b.codec = codecFor(e)
}

// Pending returns the number of bytes not yet drained.
func (b *SendBuffer) Pending() int {
	return len(b.buf)
}

// Drain returns all pending bytes and empties the buffer.
func (b *SendBuffer) Drain() []byte {
	if len(b.buf) == 0 {
		return nil
	}
	out := b.buf
	b.buf = nil
	return out
}

// Reset discards all pending bytes.
func (b *SendBuffer) Reset() {
	b.buf = nil
}

// WriteBool writes 1 for true and 0 for false.
func (b *SendBuffer) WriteBool(v bool) { b.buf = b.codec.appendBool(b.buf, v) }

// WriteInt8 writes a signed byte.
func (b *SendBuffer) WriteInt8(v int8) { b.buf = b.codec.appendInt8(b.buf, v) }

// WriteUint8 writes an unsigned byte.
func (b *SendBuffer) WriteUint8(v uint8) { b.buf = b.codec.appendUint8(b.buf, v) }

// WriteInt16 writes a signed 16-bit integer.
func (b *SendBuffer) WriteInt16(v int16) { b.buf = b.codec.appendInt16(b.buf, v) }

// WriteUint16 writes an unsigned 16-bit integer.
func (b *SendBuffer) WriteUint16(v uint16) { b.buf = b.codec.appendUint16(b.buf, v) }

// WriteInt32 writes a signed 32-bit integer.
func (b *SendBuffer) WriteInt32(v int32) { b.buf = b.codec.appendInt32(b.buf, v) }

// WriteUint32 writes an unsigned 32-bit integer.
func (b *SendBuffer) WriteUint32(v uint32) { b.buf = b.codec.appendUint32(b.buf, v) }

// WriteFloat32 writes an IEEE 754 single-precision float.
func (b *SendBuffer) WriteFloat32(v float32) { b.buf = b.codec.appendFloat32(b.buf, v) }

// WriteFloat64 writes an IEEE 754 double-precision float.
func (b *SendBuffer) WriteFloat64(v float64) { b.buf = b.codec.appendFloat64(b.buf, v) }

// WriteBytes writes p verbatim.
func (b *SendBuffer) WriteBytes(p []byte) { b.buf = append(b.buf, p...) }

// WriteUTF writes s as UTF-8 preceded by its unsigned 16-bit byte length.
// Strings longer than 65535 bytes are rejected with ErrArgument.
func (b *SendBuffer) WriteUTF(s string) error {
	p, err := b.charset.EncodeText(s, UTF8)
	if err != nil {
		return codecError("write utf", err)
	}
	if len(p) > maxUTFLength {
		return errors.Wrapf(ErrArgument, "utf string of %d bytes exceeds %d", len(p), maxUTFLength)
	}
	b.buf = b.codec.appendUint16(b.buf, uint16(len(p)))
	b.buf = append(b.buf, p...)
	return nil
}

// WriteUTFBytes writes s as UTF-8 without a length prefix.
func (b *SendBuffer) WriteUTFBytes(s string) error {
	return b.WriteMultiByte(s, UTF8)
}

// WriteMultiByte writes s encoded in the named charset without a length prefix.
func (b *SendBuffer) WriteMultiByte(s string, charset string) error {
	p, err := b.charset.EncodeText(s, charset)
	if err != nil {
		return codecError("write multibyte", err)
	}
	b.buf = append(b.buf, p...)
	return nil
}

// WriteObject encodes v and writes it as an object frame, see ReceiveBuffer.ReadObject.
func (b *SendBuffer) WriteObject(oc ObjectCodec, enc ObjectEncoding, v any) error {
	p, err := oc.Encode(v, enc)
	if err != nil {
		return codecError("write object", err)
	}
	if uint64(len(p)) > 1<<32-1 {
		return codecError("write object", errors.Errorf("object of %d bytes is too large", len(p)))
	}
	b.buf = b.codec.appendUint32(b.buf, uint32(len(p)))
	b.buf = append(b.buf, p...)
	return nil
}
