package view

import "unsafe"

// Element constrains view element types to fixed-width numerics. The
// element width is the type's in-memory size; payload bytes are
// reinterpreted in place with no per-element decode step.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// width returns the element byte width of E.
func width[E Element]() int {
	var e E
	return int(unsafe.Sizeof(e))
}

// load reinterprets the first width-of-E bytes of b as an element.
// b must hold at least that many bytes.
func load[E Element](b []byte) E {
	var e E
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&e)), unsafe.Sizeof(e)), b)
	return e
}

// elemBytes aliases an element slice as raw bytes so byte-level reads
// can fill it without an intermediate copy.
func elemBytes[E Element](dst []E) []byte {
	if len(dst) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(dst)*width[E]())
}
