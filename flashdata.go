package flashdata

// Addr is a physical flash address.
type Addr = uint32

// Align is the alignment of every descriptor and payload, in bytes.
// Descriptor offsets, data offsets and total sizes are all multiples
// of Align.
const Align = 4

// HeaderSize is the size of a descriptor's length word, in bytes.
const HeaderSize = 4

// AlignUp rounds n up to the next multiple of Align.
func AlignUp(n uint32) uint32 {
	return (n + Align - 1) &^ (Align - 1)
}

// Device is the physical flash read primitive. It bypasses the
// cache-mapped region and reads directly from the backing storage.
//
// ReadAt fills buf starting at the given physical address. A read
// either satisfies len(buf) (clamped to the device size) or returns an
// error; errors are unrecoverable from the caller's point of view — a
// failing flash controller has no partial-recovery semantic.
//
// Implementations are not required to be reentrant. Callers that share
// a Device between goroutines must serialize access; object.Store does
// this for its direct read path.
type Device interface {
	ReadAt(buf []byte, addr Addr) (int, error)
	Size() uint32
}
