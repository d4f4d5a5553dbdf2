// Package flashdata provides read-only access to length-prefixed string
// and array data embedded in firmware images.
//
// Objects live in a flash-mapped region as a 4-byte length word followed
// by raw payload bytes, padded to a 4-byte boundary. They are never
// copied into RAM wholesale: typed views reinterpret the mapped bytes in
// place, and explicit read operations copy only the requested range.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	flashdata/        Root package with the core Device interface and address model
//	├── image/        Firmware image container: building and parsing
//	├── object/       Store (mapped region + device) and Object descriptors
//	├── view/         Typed views over objects: Array[E], String, Table[E]
//	├── stream/       io.ReadSeeker adapter over an object
//	├── device/       Device implementations: memory and file backed
//	└── errors/       Structured error types for the image and device layers
//
// # Read Paths
//
// Every object supports two read paths with identical semantics and
// different cache behavior:
//
//   - Read copies from the cache-mapped region, appropriate for small or
//     frequently accessed data.
//   - ReadFlash resolves the object to its canonical location, translates
//     the mapped offset to a physical address and reads through the
//     Device, bypassing the mapped copy. Appropriate for large,
//     infrequently accessed data where cache pollution matters.
//
// Both paths preserve the same truncation rules: out-of-range reads
// return fewer bytes than requested, never an error.
//
// # Quick Start
//
// Build an image, load it and read an object:
//
//	var b image.Builder
//	b.Add("greeting", []byte("hello"))
//	raw, _ := b.Encode()
//
//	img, _ := image.Parse(raw)
//	store := object.NewStore(img, device.NewMem(img.Data(), 0), 0)
//	obj, _ := store.Object("greeting")
//	fmt.Println(obj.String()) // "hello"
package flashdata
