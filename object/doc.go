// Package object implements the descriptor layer: Store binds a mapped
// image data section to a flash device, and Object is a lightweight
// by-value handle to one length-prefixed descriptor inside it.
//
// # Read Paths
//
// Object.Read copies through the cache-mapped region; Object.ReadFlash
// resolves the handle to its canonical location, translates the data
// offset to a physical address and reads through the store's device.
// Both share one truncation contract: a read past the payload returns
// fewer bytes than requested, and a read starting at or past the end
// returns zero. No accessor in this package returns an error; range
// conditions degrade to truncated reads, zero values or the shared
// empty object.
//
// # Resolution
//
// Every accessor first resolves its handle. A zero Object, or one whose
// header or payload falls outside the mapped region, resolves to the
// empty sentinel. The out-of-range case indicates a corrupt handle and
// trips an assertion when debug mode is enabled (SetDebug); release
// behavior is the silent empty fallback.
//
// # Concurrency
//
// Mapped state is immutable, so any number of goroutines may read
// concurrently. Direct flash reads are serialized per store because the
// underlying device primitive is not required to be reentrant. A device
// failure on an in-range read is unrecoverable and panics.
package object
