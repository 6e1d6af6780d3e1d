package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrEndOfBuffer is returned when a read or seek goes past the end of the buffer.
var ErrEndOfBuffer = errors.New("end of buffer")

// Reader is a positional cursor over a byte buffer. The buffer is shared,
// not copied: the in-place transforms (XorByte, RotateByte) mutate it.
// All multi-byte values are little-endian.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a new Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Seek moves to an absolute position. Seeking to Len() is allowed; any
// read from there fails.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return r.errorAt(pos, ErrEndOfBuffer)
	}
	r.pos = pos
	return nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int) error {
	return r.Seek(r.pos + n)
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of bytes after the current position.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// HasMore reports whether the position is before the end of the buffer.
func (r *Reader) HasMore() bool {
	return r.pos < len(r.buf)
}

// PeekByte returns the byte at pos+offset without moving.
func (r *Reader) PeekByte(offset int) (byte, error) {
	at := r.pos + offset
	if at < 0 || at >= len(r.buf) {
		return 0, r.errorAt(at, ErrEndOfBuffer)
	}
	return r.buf[at], nil
}

// take returns the next n bytes and advances past them.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, r.wrapError(ErrEndOfBuffer)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadS8 reads one signed byte.
func (r *Reader) ReadS8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadS16 reads an int16.
func (r *Reader) ReadS16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadS32 reads an int32.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads an IEEE 754 float32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadVec3 reads three consecutive float32 components.
func (r *Reader) ReadVec3() ([3]float32, error) {
	var v [3]float32
	if len(r.buf)-r.pos < 12 {
		return v, r.wrapError(ErrEndOfBuffer)
	}
	for i := range v {
		v[i], _ = r.ReadF32()
	}
	return v, nil
}

// ReadColor reads four bytes in R, G, B, A order.
func (r *Reader) ReadColor() ([4]byte, error) {
	var c [4]byte
	b, err := r.take(4)
	if err != nil {
		return c, err
	}
	copy(c[:], b)
	return c, nil
}

// ReadBytes reads exactly n bytes. The result is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// ReadString reads a fixed-length field of n bytes and trims the NUL padding.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// ReadCString reads a zero-terminated string and advances past the terminator.
func (r *Reader) ReadCString() (string, error) {
	i := bytes.IndexByte(r.buf[r.pos:], 0)
	if i < 0 {
		return "", r.wrapError(ErrEndOfBuffer)
	}
	s := string(r.buf[r.pos : r.pos+i])
	r.pos += i + 1
	return s, nil
}

// XorByte XORs the byte at the current position with mask in place and advances.
func (r *Reader) XorByte(mask byte) error {
	if !r.HasMore() {
		return r.wrapError(ErrEndOfBuffer)
	}
	r.buf[r.pos] ^= mask
	r.pos++
	return nil
}

// RotateByte rotates the byte at the current position left by n bits in
// place and advances. Left rotation undoes the encoder's right rotation.
func (r *Reader) RotateByte(n int) error {
	if !r.HasMore() {
		return r.wrapError(ErrEndOfBuffer)
	}
	r.buf[r.pos] = bits.RotateLeft8(r.buf[r.pos], n)
	r.pos++
	return nil
}

func (r *Reader) wrapError(err error) error {
	return r.errorAt(r.pos, err)
}

func (r *Reader) errorAt(pos int, err error) error {
	return &ParseError{Position: pos, Err: err}
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("assetpack: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("assetpack: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (r *Reader) WrapError(section string, err error) error {
	return &ParseError{
		Position: r.pos,
		Section:  section,
		Err:      err,
	}
}
