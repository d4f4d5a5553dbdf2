package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrOverflow is returned when a LEB128 value exceeds the maximum size.
var ErrOverflow = errors.New("leb128: overflow")

// ErrUnexpectedEnd is returned when the input ends mid-field.
var ErrUnexpectedEnd = errors.New("unexpected end of input")

// ErrInvalidName is returned when a name field is not valid UTF-8.
var ErrInvalidName = errors.New("invalid UTF-8 in name")

// Reader decodes container fields from a byte slice with position tracking.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEnd
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

// ReadU32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) ReadU32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadName reads a UTF-8 encoded name (LEB128 length-prefixed byte sequence).
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidName
	}
	return string(data), nil
}

// DecodeError carries the field name and byte position at which container
// decoding failed. Reader primitives return bare sentinel errors; callers
// attach position context per field through WrapError.
type DecodeError struct {
	Err      error
	Field    string
	Position int
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("image: %s at position %d: %v", e.Field, e.Position, e.Err)
	}
	return fmt.Sprintf("image: at position %d: %v", e.Position, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WrapError creates a DecodeError with the current position.
func (r *Reader) WrapError(field string, err error) error {
	return &DecodeError{
		Position: r.pos,
		Field:    field,
		Err:      err,
	}
}
