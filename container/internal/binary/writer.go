package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer provides buffered writing utilities for container encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU16 writes a uint16.
func (w *Writer) WriteU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteS16 writes an int16.
func (w *Writer) WriteS16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 writes a uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteS32 writes an int32.
func (w *Writer) WriteS32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteF32 writes a float32.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteVec3 writes three float32 components.
func (w *Writer) WriteVec3(v [3]float32) {
	for _, c := range v {
		w.WriteF32(c)
	}
}

// WriteColor writes four color bytes.
func (w *Writer) WriteColor(c [4]byte) {
	w.buf.Write(c[:])
}

// WriteString writes s into a fixed field of n bytes, truncating or NUL padding.
func (w *Writer) WriteString(s string, n int) {
	field := make([]byte, n)
	copy(field, s)
	w.buf.Write(field)
}

// WriteCString writes s followed by a zero terminator.
func (w *Writer) WriteCString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// PutU32At overwrites a previously written uint32 at pos.
func (w *Writer) PutU32At(pos int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf.Bytes()[pos:pos+4], v)
}
