// Package image implements the firmware image container: the build-time
// embedding side (Builder) and the parsing side (Parse).
//
// # Object Wire Format
//
// Every embedded object shares one layout, for text and binary data
// alike:
//
//	length   u32 LE   payload byte count, padding excluded
//	payload  length bytes
//	padding  up to the next 4-byte boundary
//
// Both the length word and the payload start on 4-byte boundaries, and
// the length never includes padding bytes.
//
// # Container Layout
//
//	magic     u32 LE   "FIM1"
//	version   u32 LE
//	buildID   16 bytes  random UUID per build
//	flags     u32 LE    bit 0: data section snappy-compressed
//	symCount  LEB128
//	symbols   symCount × { name (LEB128 length + UTF-8), offset LEB128 }
//	dataLen   LEB128    uncompressed data section length
//	data      concatenated wire-format objects
//
// Parse validates the header, decompresses the data section when
// flagged, and verifies every symbol: aligned offset, header in range,
// payload fully inside the data section. A Builder → Parse round trip
// yields byte-identical payloads.
package image
