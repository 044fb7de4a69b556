package bytesocket

// Typed reads consume received bytes. None of them waits for data: when fewer
// bytes are buffered than a value needs, they return ErrEOF and consume
// nothing, and the read can be retried after the next EventSocketData.

// ReadBool reads one byte; any non-zero value is true.
func (s *Socket) ReadBool() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadBool()
}

// ReadInt8 reads a signed byte.
func (s *Socket) ReadInt8() (int8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadInt8()
}

// ReadUint8 reads an unsigned byte.
func (s *Socket) ReadUint8() (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadUint8()
}

// ReadInt16 reads a signed 16-bit integer.
func (s *Socket) ReadInt16() (int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadInt16()
}

// ReadUint16 reads an unsigned 16-bit integer.
func (s *Socket) ReadUint16() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadUint16()
}

// ReadInt32 reads a signed 32-bit integer.
func (s *Socket) ReadInt32() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadInt32()
}

// ReadUint32 reads an unsigned 32-bit integer.
func (s *Socket) ReadUint32() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadUint32()
}

// ReadFloat32 reads an IEEE 754 single-precision float.
func (s *Socket) ReadFloat32() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadFloat32()
}

// ReadFloat64 reads an IEEE 754 double-precision float.
func (s *Socket) ReadFloat64() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadFloat64()
}

// ReadUTF reads a UTF-8 string preceded by an unsigned 16-bit byte length.
func (s *Socket) ReadUTF() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadUTF()
}

// ReadUTFBytes reads a UTF-8 string of exactly n bytes.
func (s *Socket) ReadUTFBytes(n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadUTFBytes(n)
}

// ReadMultiByte reads n bytes and decodes them with the named charset.
func (s *Socket) ReadMultiByte(n int, charset string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadMultiByte(n, charset)
}

// ReadBytes reads exactly n bytes.
func (s *Socket) ReadBytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadBytes(n)
}

// ReadRaw drains up to limit received bytes, returning what is buffered.
func (s *Socket) ReadRaw(limit int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadRaw(limit)
}

// ReadObject decodes the next object frame into v using the object codec and
// the current object encoding. Undecodable frames fail with ErrCodec.
func (s *Socket) ReadObject(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.ReadObject(s.opts.objectCodec, s.objectEncoding, v)
}

// Typed writes append to the send buffer in any state; Flush transmits them.

// WriteBool writes 1 for true and 0 for false.
func (s *Socket) WriteBool(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteBool(v)
}

// WriteInt8 writes a signed byte.
func (s *Socket) WriteInt8(v int8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteInt8(v)
}

// WriteUint8 writes an unsigned byte.
func (s *Socket) WriteUint8(v uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteUint8(v)
}

// WriteInt16 writes a signed 16-bit integer.
func (s *Socket) WriteInt16(v int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteInt16(v)
}

// WriteUint16 writes an unsigned 16-bit integer.
func (s *Socket) WriteUint16(v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteUint16(v)
}

// WriteInt32 writes a signed 32-bit integer.
func (s *Socket) WriteInt32(v int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteInt32(v)
}

// WriteUint32 writes an unsigned 32-bit integer.
func (s *Socket) WriteUint32(v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteUint32(v)
}

// WriteFloat32 writes an IEEE 754 single-precision float.
func (s *Socket) WriteFloat32(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteFloat32(v)
}

// WriteFloat64 writes an IEEE 754 double-precision float.
func (s *Socket) WriteFloat64(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteFloat64(v)
}

// WriteBytes writes p verbatim.
func (s *Socket) WriteBytes(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.WriteBytes(p)
}

// Write implements io.Writer on top of WriteBytes. It never fails.
func (s *Socket) Write(p []byte) (int, error) {
	s.WriteBytes(p)
	return len(p), nil
}

// WriteUTF writes s as UTF-8 preceded by its unsigned 16-bit byte length.
// Strings longer than 65535 bytes fail with ErrArgument.
func (s *Socket) WriteUTF(str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.WriteUTF(str)
}

// WriteUTFBytes writes s as UTF-8 without a length prefix.
func (s *Socket) WriteUTFBytes(str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.WriteUTFBytes(str)
}

// WriteMultiByte writes s encoded in the named charset.
func (s *Socket) WriteMultiByte(str string, charset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.WriteMultiByte(str, charset)
}

// WriteObject encodes v with the object codec and the current object
// encoding and writes it as a length-prefixed frame.
func (s *Socket) WriteObject(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.WriteObject(s.opts.objectCodec, s.objectEncoding, v)
}
