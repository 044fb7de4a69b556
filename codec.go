package bytesocket

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Endian selects the byte order of multi-byte values.
type Endian uint8

const (
	// BigEndian is network byte order and the default.
	BigEndian Endian = iota
	// LittleEndian stores the least significant byte first.
	LittleEndian
)

func (e Endian) String() string {
	switch e {
	case BigEndian:
		return "bigEndian"
	case LittleEndian:
		return "littleEndian"
	default:
		return "unknown"
	}
}

// UnmarshalText accepts "big", "bigEndian", "little" and "littleEndian", case-insensitive.
func (e *Endian) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "big", "bigendian", "network":
		*e = BigEndian
	case "little", "littleendian":
		*e = LittleEndian
	default:
		return errors.Wrapf(ErrArgument, "unknown endian %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Endian) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Kind identifies a fixed-width primitive value.
type Kind uint8

// Primitive kinds.
const (
	KindBool Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

var kindWidths = [...]int{
	KindBool:    1,
	KindInt8:    1,
	KindUint8:   1,
	KindInt16:   2,
	KindUint16:  2,
	KindInt32:   4,
	KindUint32:  4,
	KindFloat32: 4,
	KindFloat64: 8,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Width returns the encoded size of k in bytes.
func (k Kind) Width() int {
	if int(k) < len(kindWidths) {
		return kindWidths[k]
	}
	return 0
}

// byteOrder is satisfied by binary.BigEndian and binary.LittleEndian.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// codec encodes and decodes primitive values in one byte order.
// Decoders expect a window of at least the kind's width.
type codec struct {
	order byteOrder
}

func codecFor(e Endian) codec {
	if e == LittleEndian {
		return codec{order: binary.LittleEndian}
	}
	return codec{order: binary.BigEndian}
}

func (codec) appendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func (codec) bool(b []byte) bool { return b[0] != 0 }

func (codec) appendInt8(dst []byte, v int8) []byte { return append(dst, byte(v)) }

func (codec) int8(b []byte) int8 { return int8(b[0]) }

func (codec) appendUint8(dst []byte, v uint8) []byte { return append(dst, v) }

func (codec) uint8(b []byte) uint8 { return b[0] }

func (c codec) appendInt16(dst []byte, v int16) []byte { return c.order.AppendUint16(dst, uint16(v)) }

func (c codec) int16(b []byte) int16 { return int16(c.order.Uint16(b)) }

func (c codec) appendUint16(dst []byte, v uint16) []byte { return c.order.AppendUint16(dst, v) }

func (c codec) uint16(b []byte) uint16 { return c.order.Uint16(b) }

func (c codec) appendInt32(dst []byte, v int32) []byte { return c.order.AppendUint32(dst, uint32(v)) }

func (c codec) int32(b []byte) int32 { return int32(c.order.Uint32(b)) }

func (c codec) appendUint32(dst []byte, v uint32) []byte { return c.order.AppendUint32(dst, v) }

func (c codec) uint32(b []byte) uint32 { return c.order.Uint32(b) }

func (c codec) appendFloat32(dst []byte, v float32) []byte {
	return c.order.AppendUint32(dst, math.Float32bits(v))
}

func (c codec) float32(b []byte) float32 { return math.Float32frombits(c.order.Uint32(b)) }

func (c codec) appendFloat64(dst []byte, v float64) []byte {
	return c.order.AppendUint64(dst, math.Float64bits(v))
}

func (c codec) float64(b []byte) float64 { return math.Float64frombits(c.order.Uint64(b)) }
