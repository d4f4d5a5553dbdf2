package image

// Container format magic number and version.
const (
	// Magic is the image container magic number ("FIM1" in little-endian).
	Magic uint32 = 0x314D4946

	// Version is the supported container format version.
	Version uint32 = 1
)

// Header flag bits.
const (
	// FlagCompressed marks a snappy-compressed data section.
	FlagCompressed uint32 = 1 << 0

	flagsKnown = FlagCompressed
)

// BuildIDSize is the size of the build identifier field, in bytes.
const BuildIDSize = 16

// Symbol names a single embedded object and the offset of its length
// word within the uncompressed data section. Offsets are always 4-byte
// aligned.
type Symbol struct {
	Name   string
	Offset uint32
}
