package bytesocket

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
)

// UTF8 is the charset name used by the UTF string reads and writes.
const UTF8 = "utf-8"

// Charset transcodes text between Go strings and a named character set.
type Charset interface {
	// DecodeText converts b, encoded in the named charset, to a string.
	DecodeText(b []byte, name string) (string, error)
	// EncodeText converts s to bytes in the named charset.
	EncodeText(s string, name string) ([]byte, error)
}

// TextCharset resolves charset names through the WHATWG encoding index
// ("utf-8", "iso-8859-1", "shift_jis", "gb2312", ...).
type TextCharset struct{}

// DecodeText implements Charset.
func (TextCharset) DecodeText(b []byte, name string) (string, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", errors.Wrapf(err, "charset %q", name)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", name)
	}
	return string(out), nil
}

// EncodeText implements Charset.
func (TextCharset) EncodeText(s string, name string) ([]byte, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "charset %q", name)
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", name)
	}
	return out, nil
}
