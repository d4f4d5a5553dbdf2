package image

import (
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/embkit/flashdata"
	"github.com/embkit/flashdata/errors"
	"github.com/embkit/flashdata/image/internal/binary"
)

// Builder assembles a firmware image from named payloads. The zero
// value is ready to use. Objects are laid out in the order they are
// added, each as a 4-byte little-endian length word followed by the
// payload bytes, padded to the next 4-byte boundary.
type Builder struct {
	// Compress enables snappy compression of the data section.
	Compress bool

	// BuildID identifies the build. A random ID is generated at Encode
	// time when left zero.
	BuildID uuid.UUID

	symbols []Symbol
	data    *binary.Writer
	names   map[string]struct{}
}

// Add embeds payload under name. The name must be non-empty and unique
// within the image. The payload bytes are copied.
func (b *Builder) Add(name string, payload []byte) error {
	if name == "" {
		return errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Detail("object name must not be empty").
			Build()
	}
	if _, ok := b.names[name]; ok {
		return errors.Duplicate(errors.PhaseBuild, name)
	}
	if b.names == nil {
		b.names = make(map[string]struct{})
	}
	if b.data == nil {
		b.data = binary.NewWriter()
	}

	off := uint32(b.data.Len())
	b.data.WriteU32LE(uint32(len(payload)))
	b.data.WriteBytes(payload)
	b.data.Pad(flashdata.Align)

	b.names[name] = struct{}{}
	b.symbols = append(b.symbols, Symbol{Name: name, Offset: off})
	return nil
}

// AddFile embeds the contents of the file at path under name.
func (b *Builder) AddFile(name, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.PhaseBuild, errors.KindInvalidInput, err, "read object file")
	}
	return b.Add(name, payload)
}

// Len returns the number of objects added so far.
func (b *Builder) Len() int {
	return len(b.symbols)
}

// Encode serializes the image to container format.
func (b *Builder) Encode() ([]byte, error) {
	buildID := b.BuildID
	if buildID == uuid.Nil {
		var err error
		buildID, err = uuid.NewRandom()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseBuild, errors.KindInvalidInput, err, "generate build id")
		}
	}

	var data []byte
	if b.data != nil {
		data = b.data.Bytes()
	}

	var flags uint32
	section := data
	if b.Compress {
		flags |= FlagCompressed
		section = snappy.Encode(nil, data)
	}

	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)
	w.WriteBytes(buildID[:])
	w.WriteU32LE(flags)
	w.WriteU32(uint32(len(b.symbols)))
	for _, sym := range b.symbols {
		w.WriteName(sym.Name)
		w.WriteU32(sym.Offset)
	}
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(section)
	return w.Bytes(), nil
}

// WriteTo encodes the image and writes it to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	raw, err := b.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(raw)
	return int64(n), err
}
