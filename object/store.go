package object

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/embkit/flashdata"
	"github.com/embkit/flashdata/image"
)

// Store binds the cache-mapped data section of a parsed image, the
// physical base address it is mapped at, and the device used for direct
// flash reads. All mapped state is immutable after construction;
// concurrent cached reads need no synchronization. Direct reads are
// serialized because the device primitive may not be reentrant.
type Store struct {
	data    []byte
	base    flashdata.Addr
	dev     flashdata.Device
	symbols []image.Symbol
	index   map[string]uint32

	flashMu     sync.Mutex
	cachedReads atomic.Uint64
	flashReads  atomic.Uint64
}

// NewStore creates a store over img's data section, mapped at physical
// address base on dev. A nil device is allowed on hosts with a single
// flat address space: direct reads then fall back to the mapped copy.
func NewStore(img *image.Image, dev flashdata.Device, base flashdata.Addr) *Store {
	symbols := img.Symbols()
	index := make(map[string]uint32, len(symbols))
	for _, sym := range symbols {
		index[sym.Name] = sym.Offset
	}
	return &Store{
		data:    img.Data(),
		base:    base,
		dev:     dev,
		symbols: symbols,
		index:   index,
	}
}

// Object finds a named object in the store.
func (s *Store) Object(name string) (Object, bool) {
	off, ok := s.index[name]
	if !ok {
		return Object{}, false
	}
	return Object{store: s, off: off}, true
}

// At returns the object whose length word is at the given data-section
// offset. Use for descriptors reached through raw offsets rather than
// the symbol table; an offset outside the mapped region resolves to the
// empty object on access.
func (s *Store) At(offset uint32) Object {
	return Object{store: s, off: offset}
}

// Symbols returns the store's symbol table in layout order.
func (s *Store) Symbols() []image.Symbol {
	out := make([]image.Symbol, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Base returns the physical address the data section is mapped at.
func (s *Store) Base() flashdata.Addr {
	return s.base
}

// CachedReads returns the number of cache-mapped read operations
// performed so far.
func (s *Store) CachedReads() uint64 {
	return s.cachedReads.Load()
}

// FlashReads returns the number of direct flash read operations
// performed so far.
func (s *Store) FlashReads() uint64 {
	return s.flashReads.Load()
}

// readFlash performs one direct device read. addr is relative to the
// store base. Device failure on an in-range read means broken hardware;
// there is no partial-recovery semantic, so it escalates to a panic.
func (s *Store) readFlash(buf []byte, addr uint32) int {
	s.flashReads.Add(1)
	if s.dev == nil {
		// Single flat address space: no separate flash controller to
		// read through.
		return copy(buf, s.data[addr:])
	}
	s.flashMu.Lock()
	defer s.flashMu.Unlock()
	n, err := s.dev.ReadAt(buf, s.base+addr)
	if err != nil {
		Logger().Error("flash read failed", zap.Error(err))
		panic(err)
	}
	return n
}
