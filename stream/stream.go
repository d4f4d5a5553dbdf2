// Package stream bridges a flash-resident object to byte-stream
// consumers. Reader implements io.Reader and io.Seeker over an object's
// payload without copying it up front; each Read pulls the next block
// through the read path selected at construction.
package stream

import (
	"io"

	"github.com/embkit/flashdata/errors"
	"github.com/embkit/flashdata/object"
)

// Mode selects the read path used by a Reader.
type Mode int

const (
	// Cached reads through the cache-mapped region. Appropriate for
	// small or frequently accessed objects.
	Cached Mode = iota

	// Direct reads through the flash device, bypassing the mapped
	// copy. Appropriate for large objects streamed once, where cache
	// pollution matters more than access latency.
	Direct
)

// Reader is a sequential reader over one object. The zero value reads
// from the empty object; use New for a specific one.
type Reader struct {
	obj  object.Object
	mode Mode
	pos  uint32
}

// New creates a Reader over obj using the given read mode.
func New(obj object.Object, mode Mode) *Reader {
	return &Reader{obj: obj, mode: mode}
}

// Len returns the total payload length.
func (r *Reader) Len() int {
	return int(r.obj.Length())
}

// Available returns the number of unread bytes.
func (r *Reader) Available() int {
	length := r.obj.Length()
	if r.pos >= length {
		return 0
	}
	return int(length - r.pos)
}

// Finished reports whether the stream position has reached the end.
func (r *Reader) Finished() bool {
	return r.pos >= r.obj.Length()
}

// Read implements io.Reader. It reads the next block through the
// selected path, advances by the amount actually read, and returns
// io.EOF once the payload is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var n int
	if r.mode == Direct {
		n = r.obj.ReadFlash(r.pos, p)
	} else {
		n = r.obj.Read(r.pos, p)
	}
	r.pos += uint32(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Seek implements io.Seeker. The resulting position is clamped into
// [0, Len]; a position that would fall before the start is an error.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	length := int64(r.obj.Length())
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(r.pos) + offset
	case io.SeekEnd:
		target = length + offset
	default:
		return int64(r.pos), errors.New(errors.PhaseRead, errors.KindInvalidInput).
			Detail("invalid seek whence %d", whence).
			Build()
	}
	if target < 0 {
		return int64(r.pos), errors.OutOfBounds(errors.PhaseRead, "", target, length)
	}
	if target > length {
		target = length
	}
	r.pos = uint32(target)
	return target, nil
}
