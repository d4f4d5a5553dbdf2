package object

import (
	"bytes"
	"encoding/binary"

	"github.com/embkit/flashdata"
)

// chunkSize is the stack buffer size used for chunked comparisons.
// Comparison never allocates in proportion to the payload.
const chunkSize = 64

// Object identifies one length-prefixed descriptor inside a store: a
// 4-byte length word followed by payload bytes, padded to a 4-byte
// boundary. An Object is a lightweight value; copying it copies the
// {store, offset} handle and never the payload, so every copy resolves
// to the one canonical location. The zero Object is the shared empty
// sentinel.
type Object struct {
	store *Store
	off   uint32
}

// Empty returns the shared empty object.
func Empty() Object {
	return Object{}
}

// resolve returns the canonical descriptor to read from. An object with
// no store, or whose header or payload falls outside the mapped region,
// resolves to the empty sentinel. The out-of-range case is a programmer
// error: it traps in debug mode and degrades silently otherwise.
func (o Object) resolve() Object {
	if o.store == nil {
		return Object{}
	}
	end := uint64(o.off) + flashdata.HeaderSize
	if end > uint64(len(o.store.data)) {
		assertf("object header at %d outside mapped region (%d bytes)", o.off, len(o.store.data))
		return Object{}
	}
	length := binary.LittleEndian.Uint32(o.store.data[o.off:])
	if end+uint64(length) > uint64(len(o.store.data)) {
		assertf("object payload at %d+%d outside mapped region (%d bytes)", o.off, length, len(o.store.data))
		return Object{}
	}
	return o
}

// Valid reports whether the object resolves to a mapped descriptor.
// The empty object is not valid.
func (o Object) Valid() bool {
	return o.resolve().store != nil
}

// Length returns the payload byte count, excluding padding and any
// implicit terminator.
func (o Object) Length() uint32 {
	r := o.resolve()
	if r.store == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(r.store.data[r.off:])
}

// Size returns the number of bytes used to store the object: the
// payload plus one reserved terminator byte, rounded up to a 4-byte
// boundary.
func (o Object) Size() uint32 {
	return flashdata.AlignUp(o.Length() + 1)
}

// DataOffset returns the data-section offset of the first payload byte,
// one word past the descriptor's own offset.
func (o Object) DataOffset() uint32 {
	return o.off + flashdata.HeaderSize
}

// DataAddr returns the physical flash address of the first payload byte.
func (o Object) DataAddr() flashdata.Addr {
	r := o.resolve()
	if r.store == nil {
		return 0
	}
	return r.store.base + r.DataOffset()
}

// Payload returns the mapped payload bytes without copying. Callers
// must not modify the returned slice. Returns nil for the empty object.
func (o Object) Payload() []byte {
	r := o.resolve()
	if r.store == nil {
		return nil
	}
	start := r.DataOffset()
	return r.store.data[start : start+r.Length()]
}

// Read copies payload bytes starting at offset into buf through the
// cache-mapped path and returns the number of bytes copied:
// min(Length-offset, len(buf)), or 0 when offset >= Length. Read never
// fails; a short count at the tail is the only truncation signal.
func (o Object) Read(offset uint32, buf []byte) int {
	r := o.resolve()
	if r.store == nil {
		return 0
	}
	length := binary.LittleEndian.Uint32(r.store.data[r.off:])
	if offset >= length {
		return 0
	}
	r.store.cachedReads.Add(1)
	n := min(int(length-offset), len(buf))
	copy(buf[:n], r.store.data[r.DataOffset()+offset:])
	return n
}

// ReadFlash has the same contract as Read but resolves the object to
// its canonical location and reads through the store's device,
// bypassing the cache-mapped copy. Use it for large, infrequently
// accessed data to avoid polluting the read cache; the two paths are a
// deliberate performance tradeoff, not interchangeable conveniences.
func (o Object) ReadFlash(offset uint32, buf []byte) int {
	r := o.resolve()
	if r.store == nil {
		return 0
	}
	length := binary.LittleEndian.Uint32(r.store.data[r.off:])
	if offset >= length {
		return 0
	}
	n := min(int(length-offset), len(buf))
	return r.store.readFlash(buf[:n], r.DataOffset()+offset)
}

// EqualBytes reports whether the payload is byte-for-byte equal to b.
func (o Object) EqualBytes(b []byte) bool {
	if o.Length() != uint32(len(b)) {
		return false
	}
	var buf [chunkSize]byte
	for off := 0; off < len(b); off += chunkSize {
		n := o.Read(uint32(off), buf[:])
		if n == 0 {
			return false
		}
		if !bytes.Equal(buf[:n], b[off:off+n]) {
			return false
		}
	}
	return true
}

// EqualString reports whether the payload equals s. The comparison runs
// through a fixed stack buffer; it never loads the whole payload.
func (o Object) EqualString(s string) bool {
	if o.Length() != uint32(len(s)) {
		return false
	}
	var buf [chunkSize]byte
	for off := 0; off < len(s); off += chunkSize {
		n := o.Read(uint32(off), buf[:])
		if n == 0 {
			return false
		}
		if string(buf[:n]) != s[off:off+n] {
			return false
		}
	}
	return true
}

// Equal reports whether two objects have identical payloads. Objects
// from different stores compare by content, chunk by chunk.
func (o Object) Equal(other Object) bool {
	length := o.Length()
	if length != other.Length() {
		return false
	}
	var a, b [chunkSize]byte
	for off := uint32(0); off < length; off += chunkSize {
		na := o.Read(off, a[:])
		nb := other.Read(off, b[:])
		if na != nb || !bytes.Equal(a[:na], b[:nb]) {
			return false
		}
	}
	return true
}

// String copies the payload into a Go string.
func (o Object) String() string {
	return string(o.Payload())
}
