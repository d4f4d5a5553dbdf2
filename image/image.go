package image

import (
	stdbinary "encoding/binary"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/embkit/flashdata"
	"github.com/embkit/flashdata/errors"
	"github.com/embkit/flashdata/image/internal/binary"
)

// Image is a parsed firmware image. All state is immutable after Parse.
type Image struct {
	buildID uuid.UUID
	symbols []Symbol
	index   map[string]int
	data    []byte
}

// decodeErr wraps a reader failure at the current position, so parse
// errors report which field broke and where.
func decodeErr(r *binary.Reader, field string, err error) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Offset(int64(r.Position())).
		Cause(r.WrapError(field, err)).
		Build()
}

// Parse decodes and validates a container. The returned Image retains
// the uncompressed data section; the input slice is not referenced
// afterwards unless the image was uncompressed, in which case the data
// section aliases raw.
func Parse(raw []byte) (*Image, error) {
	r := binary.NewReader(raw)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeErr(r, "magic", err)
	}
	if magic != Magic {
		return nil, errors.InvalidMagic(magic, Magic)
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeErr(r, "version", err)
	}
	if version != Version {
		return nil, errors.InvalidVersion(version, Version)
	}

	idBytes, err := r.ReadBytes(BuildIDSize)
	if err != nil {
		return nil, decodeErr(r, "build id", err)
	}
	var buildID uuid.UUID
	copy(buildID[:], idBytes)

	flags, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeErr(r, "flags", err)
	}
	if flags&^flagsKnown != 0 {
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Value(flags).
			Detail("unknown flag bits %#x", flags&^flagsKnown).
			Build()
	}

	symCount, err := r.ReadU32()
	if err != nil {
		return nil, decodeErr(r, "symbol count", err)
	}
	symbols := make([]Symbol, 0, symCount)
	index := make(map[string]int, symCount)
	for i := uint32(0); i < symCount; i++ {
		name, err := r.ReadName()
		if err != nil {
			return nil, decodeErr(r, "symbol name", err)
		}
		off, err := r.ReadU32()
		if err != nil {
			return nil, decodeErr(r, "symbol offset", err)
		}
		if _, ok := index[name]; ok {
			return nil, errors.Duplicate(errors.PhaseParse, name)
		}
		index[name] = len(symbols)
		symbols = append(symbols, Symbol{Name: name, Offset: off})
	}

	dataLen, err := r.ReadU32()
	if err != nil {
		return nil, decodeErr(r, "data length", err)
	}
	section, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return nil, decodeErr(r, "data section", err)
	}

	data := section
	if flags&FlagCompressed != 0 {
		data, err = snappy.Decode(nil, section)
		if err != nil {
			return nil, decodeErr(r, "data section", err)
		}
	}
	if uint32(len(data)) != dataLen {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Detail("data section is %d bytes, header says %d", len(data), dataLen).
			Build()
	}

	img := &Image{buildID: buildID, symbols: symbols, index: index, data: data}
	for _, sym := range symbols {
		if err := img.checkSymbol(sym); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// checkSymbol verifies a symbol's descriptor lies fully inside the data
// section on a 4-byte boundary.
func (img *Image) checkSymbol(sym Symbol) error {
	if sym.Offset%flashdata.Align != 0 {
		return errors.Misaligned(errors.PhaseParse, sym.Name, int64(sym.Offset))
	}
	end := int64(sym.Offset) + flashdata.HeaderSize
	if end > int64(len(img.data)) {
		return errors.OutOfBounds(errors.PhaseParse, sym.Name, int64(sym.Offset), int64(len(img.data)))
	}
	length := stdbinary.LittleEndian.Uint32(img.data[sym.Offset:])
	if end+int64(length) > int64(len(img.data)) {
		return errors.InvalidData(errors.PhaseParse, sym.Name, "payload extends past data section")
	}
	return nil
}

// BuildID returns the image's build identifier.
func (img *Image) BuildID() uuid.UUID {
	return img.buildID
}

// Symbols returns a copy of the symbol table in layout order.
func (img *Image) Symbols() []Symbol {
	out := make([]Symbol, len(img.symbols))
	copy(out, img.symbols)
	return out
}

// Lookup finds a symbol by name.
func (img *Image) Lookup(name string) (Symbol, bool) {
	i, ok := img.index[name]
	if !ok {
		return Symbol{}, false
	}
	return img.symbols[i], true
}

// Data returns the uncompressed data section. Callers must not modify
// the returned slice.
func (img *Image) Data() []byte {
	return img.data
}
