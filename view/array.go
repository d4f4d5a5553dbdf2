package view

import (
	"github.com/embkit/flashdata/object"
)

// Array reinterprets an object's payload as a sequence of fixed-width
// elements. It is a stateless view: copying it copies the underlying
// object handle, never payload bytes, and it stays valid exactly as
// long as the object's store does.
//
// When the payload length is not a multiple of the element width the
// trailing partial bytes never surface as elements: Len truncates
// toward the floor. The bytes remain reachable through the object's
// byte-level accessors.
type Array[E Element] struct {
	obj object.Object
}

// Of creates a typed view over obj.
func Of[E Element](obj object.Object) Array[E] {
	return Array[E]{obj: obj}
}

// EmptyArray returns a view over the shared empty object.
func EmptyArray[E Element]() Array[E] {
	return Array[E]{obj: object.Empty()}
}

// Object returns the underlying object.
func (a Array[E]) Object() object.Object {
	return a.obj
}

// Len returns the element count: payload bytes divided by the element
// width, floored.
func (a Array[E]) Len() int {
	return int(a.obj.Length()) / width[E]()
}

// At returns the element at index i, or the zero value when i is out
// of range. Out-of-range access never faults: the view sits on
// memory-mapped read-only storage and a safe default is the contract.
func (a Array[E]) At(i int) E {
	var zero E
	if i < 0 || i >= a.Len() {
		return zero
	}
	w := width[E]()
	return load[E](a.obj.Payload()[i*w:])
}

// IndexOf returns the smallest index holding v, or -1 when absent.
// Linear scan; the view makes no ordering assumption.
func (a Array[E]) IndexOf(v E) int {
	n := a.Len()
	for i := 0; i < n; i++ {
		if a.At(i) == v {
			return i
		}
	}
	return -1
}

// Read copies elements starting at index into dst through the
// cache-mapped path and returns the number of whole elements copied.
// An out-of-range index reads nothing; a trailing partial element is
// not counted as read. The range check happens on the element index,
// before the byte-offset conversion, so indexes too large to address
// cannot wrap around into the payload.
func (a Array[E]) Read(index int, dst []E) int {
	if index < 0 || index >= a.Len() {
		return 0
	}
	w := width[E]()
	n := a.obj.Read(uint32(index*w), elemBytes(dst))
	return n / w
}

// ReadFlash is Read through the direct flash path.
func (a Array[E]) ReadFlash(index int, dst []E) int {
	if index < 0 || index >= a.Len() {
		return 0
	}
	w := width[E]()
	n := a.obj.ReadFlash(uint32(index*w), elemBytes(dst))
	return n / w
}

// Iter returns a cursor positioned before the first element. The
// sequence is finite and read-only; restart by creating a fresh
// iterator.
func (a Array[E]) Iter() *Iterator[E] {
	return &Iterator[E]{arr: a, idx: -1}
}

// Iterator is a forward cursor over an Array, in the style of
// bufio.Scanner: Next advances and reports whether an element is
// available, Value returns it.
type Iterator[E Element] struct {
	arr Array[E]
	idx int
}

// Next advances the cursor. It returns false once the cursor passes
// the last element, after which Value returns the zero element.
func (it *Iterator[E]) Next() bool {
	if it.idx >= it.arr.Len() {
		return false
	}
	it.idx++
	return it.idx < it.arr.Len()
}

// Value returns the element at the cursor.
func (it *Iterator[E]) Value() E {
	return it.arr.At(it.idx)
}

// Index returns the cursor position, -1 before the first Next and
// Len at the terminal position.
func (it *Iterator[E]) Index() int {
	return it.idx
}
