// Package view provides typed, bounds-safe, copy-free views over
// flash-resident objects.
//
// A view is a stateless reinterpretation of an object's payload; it
// holds the lightweight object handle and nothing else, so views are
// cheap to copy and valid as long as the underlying store. Three view
// shapes share one truncation rule — element counts are the payload
// byte length divided by the element width, floored:
//
//   - Array[E] for sequences of fixed-width numeric elements
//   - String for text
//   - Table[E] for rows of a fixed column count
//
// Out-of-range access returns the element type's zero value, never an
// error and never a fault. That keeps indexed access total over
// read-only storage: probing past the end is harmless by contract.
//
//	arr := view.Of[uint32](obj)
//	for it := arr.Iter(); it.Next(); {
//		process(it.Value())
//	}
package view
