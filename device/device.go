// Package device provides flashdata.Device implementations for host use:
// a byte-slice backed device for tests and tooling, and a file backed
// device that reads the raw image file the way a flash controller reads
// the part.
//
// Both devices count ReadAt calls so the dual read-path behavior of the
// object layer can be verified: cached reads never touch the device.
package device

import (
	"os"
	"sync/atomic"

	"github.com/embkit/flashdata"
	"github.com/embkit/flashdata/errors"
)

// Mem is a memory backed device. The device occupies the physical
// address range [base, base+len(data)).
type Mem struct {
	data  []byte
	base  flashdata.Addr
	reads atomic.Uint64
}

// NewMem creates a device over data mapped at base. The slice is not
// copied; callers must not modify it afterwards.
func NewMem(data []byte, base flashdata.Addr) *Mem {
	return &Mem{data: data, base: base}
}

// ReadAt implements flashdata.Device.
func (m *Mem) ReadAt(buf []byte, addr flashdata.Addr) (int, error) {
	m.reads.Add(1)
	if addr < m.base || addr > m.base+uint32(len(m.data)) {
		return 0, errors.OutOfBounds(errors.PhaseRead, "", int64(addr), int64(len(m.data)))
	}
	n := copy(buf, m.data[addr-m.base:])
	if n < len(buf) {
		return n, errors.OutOfBounds(errors.PhaseRead, "", int64(addr)+int64(n), int64(len(m.data)))
	}
	return n, nil
}

// Size implements flashdata.Device.
func (m *Mem) Size() uint32 {
	return uint32(len(m.data))
}

// Reads returns the number of ReadAt calls made so far.
func (m *Mem) Reads() uint64 {
	return m.reads.Load()
}

// File is a device backed by an open file. Physical address 0
// corresponds to byte offset off in the file, so a store whose data
// section starts partway into an image file can map it directly.
type File struct {
	f     *os.File
	off   int64
	size  uint32
	reads atomic.Uint64
}

// OpenFile opens path as a device. off is the file offset of physical
// address 0; size is the addressable range, or 0 to use the rest of
// the file.
func OpenFile(path string, off int64, size uint32) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "open device file")
	}
	if size == 0 {
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "stat device file")
		}
		if st.Size() < off {
			f.Close()
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Detail("file is %d bytes, offset %d past end", st.Size(), off).
				Build()
		}
		size = uint32(st.Size() - off)
	}
	return &File{f: f, off: off, size: size}, nil
}

// ReadAt implements flashdata.Device. Reads never cross the declared
// device size, even when the backing file has more bytes past it.
func (d *File) ReadAt(buf []byte, addr flashdata.Addr) (int, error) {
	d.reads.Add(1)
	if addr > d.size {
		return 0, errors.OutOfBounds(errors.PhaseRead, "", int64(addr), int64(d.size))
	}
	avail := int(d.size - addr)
	short := len(buf) > avail
	if short {
		buf = buf[:avail]
	}
	n, err := d.f.ReadAt(buf, d.off+int64(addr))
	if err != nil {
		return n, errors.Wrap(errors.PhaseRead, errors.KindInvalidInput, err, "device read")
	}
	if short {
		return n, errors.OutOfBounds(errors.PhaseRead, "", int64(addr)+int64(n), int64(d.size))
	}
	return n, nil
}

// Size implements flashdata.Device.
func (d *File) Size() uint32 {
	return d.size
}

// Reads returns the number of ReadAt calls made so far.
func (d *File) Reads() uint64 {
	return d.reads.Load()
}

// Close closes the underlying file.
func (d *File) Close() error {
	return d.f.Close()
}
