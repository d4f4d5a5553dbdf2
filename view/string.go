package view

import (
	"bytes"

	"github.com/embkit/flashdata/object"
)

// String is the text view over an object: one byte per element, with
// string conversion and comparison against ordinary Go strings. The
// length excludes padding and the implicit NUL reserved by Size.
type String struct {
	obj object.Object
}

// Str creates a text view over obj.
func Str(obj object.Object) String {
	return String{obj: obj}
}

// EmptyString returns a view over the shared empty object.
func EmptyString() String {
	return String{obj: object.Empty()}
}

// Object returns the underlying object.
func (s String) Object() object.Object {
	return s.obj
}

// Len returns the string length in bytes.
func (s String) Len() int {
	return int(s.obj.Length())
}

// At returns the byte at index i, or 0 when out of range.
func (s String) At(i int) byte {
	if i < 0 || i >= s.Len() {
		return 0
	}
	return s.obj.Payload()[i]
}

// String copies the payload into a Go string.
func (s String) String() string {
	return s.obj.String()
}

// Equal reports byte-for-byte equality with v.
func (s String) Equal(v string) bool {
	return s.obj.EqualString(v)
}

// EqualBytes reports byte-for-byte equality with v.
func (s String) EqualBytes(v []byte) bool {
	return s.obj.EqualBytes(v)
}

// EqualView reports content equality with another text view.
func (s String) EqualView(v String) bool {
	return s.obj.Equal(v.obj)
}

// Compare orders the view against v like bytes.Compare, comparing
// through a fixed-size buffer rather than loading the whole payload.
func (s String) Compare(v string) int {
	const chunk = 64
	var buf [chunk]byte
	length := s.Len()
	for off := 0; off < length; off += chunk {
		n := s.obj.Read(uint32(off), buf[:])
		rest := v[min(off, len(v)):min(off+n, len(v))]
		if c := bytes.Compare(buf[:n], []byte(rest)); c != 0 {
			return c
		}
	}
	if length < len(v) {
		return -1
	}
	return 0
}

// Read copies bytes through the cache-mapped path; same contract as
// the object's Read.
func (s String) Read(offset uint32, buf []byte) int {
	return s.obj.Read(offset, buf)
}

// ReadFlash copies bytes through the direct flash path.
func (s String) ReadFlash(offset uint32, buf []byte) int {
	return s.obj.ReadFlash(offset, buf)
}
