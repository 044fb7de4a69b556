package bytesocket

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// ObjectEncoding tags the serialization format used by ReadObject and
// WriteObject. The socket stores it and passes it to the ObjectCodec untouched.
type ObjectEncoding uint8

// Encodings understood by the default object codec.
const (
	// ObjectCBOR encodes values as deterministic CBOR. It is the default.
	ObjectCBOR ObjectEncoding = iota
	// ObjectJSON encodes values as JSON.
	ObjectJSON
	// ObjectProtobuf encodes proto.Message values in protobuf wire format.
	ObjectProtobuf
)

func (e ObjectEncoding) String() string {
	switch e {
	case ObjectCBOR:
		return "cbor"
	case ObjectJSON:
		return "json"
	case ObjectProtobuf:
		return "protobuf"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// UnmarshalText accepts "cbor", "json" and "protobuf".
func (e *ObjectEncoding) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "cbor":
		*e = ObjectCBOR
	case "json":
		*e = ObjectJSON
	case "protobuf", "proto":
		*e = ObjectProtobuf
	default:
		return errors.Wrapf(ErrArgument, "unknown object encoding %q", text)
	}
	return nil
}

// ObjectCodec serializes values for ReadObject and WriteObject.
type ObjectCodec interface {
	// Encode serializes v according to enc.
	Encode(v any, enc ObjectEncoding) ([]byte, error)
	// Decode deserializes data into v, which must be a pointer.
	Decode(data []byte, enc ObjectEncoding, v any) error
}

// cborEncMode is deterministic so equal values always produce equal frames.
var cborEncMode cbor.EncMode

var cborDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Maps decoded into interface values get string keys so they match JSON.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		DefaultMapType:    reflect.TypeOf(map[string]any(nil)),
	}
	cborDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// StandardObjectCodec implements ObjectCodec for ObjectCBOR, ObjectJSON and ObjectProtobuf.
type StandardObjectCodec struct{}

// Encode implements ObjectCodec.
func (StandardObjectCodec) Encode(v any, enc ObjectEncoding) ([]byte, error) {
	switch enc {
	case ObjectCBOR:
		return cborEncMode.Marshal(v)
	case ObjectJSON:
		return json.Marshal(v)
	case ObjectProtobuf:
		m, ok := v.(proto.Message)
		if !ok {
			return nil, errors.Errorf("%T is not a proto.Message", v)
		}
		return proto.Marshal(m)
	default:
		return nil, errors.Errorf("unsupported object encoding %s", enc)
	}
}

// Decode implements ObjectCodec.
func (StandardObjectCodec) Decode(data []byte, enc ObjectEncoding, v any) error {
	switch enc {
	case ObjectCBOR:
		return cborDecMode.Unmarshal(data, v)
	case ObjectJSON:
		return json.Unmarshal(data, v)
	case ObjectProtobuf:
		m, ok := v.(proto.Message)
		if !ok {
			return errors.Errorf("%T is not a proto.Message", v)
		}
		return proto.Unmarshal(data, m)
	default:
		return errors.Errorf("unsupported object encoding %s", enc)
	}
}
