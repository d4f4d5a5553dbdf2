package image

import (
	"bytes"
	stdbinary "encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	fderr "github.com/embkit/flashdata/errors"
	"github.com/embkit/flashdata/image/internal/binary"
)

func buildImage(t *testing.T, compress bool, objects map[string][]byte) []byte {
	t.Helper()
	var b Builder
	b.Compress = compress
	// Deterministic order for offset assertions.
	for _, name := range sortedNames(objects) {
		if err := b.Add(name, objects[name]); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}
	raw, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return raw
}

func sortedNames(m map[string][]byte) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func payloadAt(t *testing.T, img *Image, name string) []byte {
	t.Helper()
	sym, ok := img.Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q): not found", name)
	}
	data := img.Data()
	length := stdbinary.LittleEndian.Uint32(data[sym.Offset:])
	start := sym.Offset + 4
	return data[start : start+length]
}

func TestRoundTrip(t *testing.T) {
	objects := map[string][]byte{
		"greeting": []byte("hello"),
		"motd":     []byte("This is a test\x00Another test\x00hello"),
		"empty":    {},
		"binary":   {0x00, 0xff, 0x7f, 0x80, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
	}

	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			raw := buildImage(t, compress, objects)
			img, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(img.Symbols()) != len(objects) {
				t.Fatalf("Symbols = %d, want %d", len(img.Symbols()), len(objects))
			}
			for name, want := range objects {
				got := payloadAt(t, img, name)
				if !bytes.Equal(got, want) {
					t.Errorf("payload %q = %v, want %v", name, got, want)
				}
			}
		})
	}
}

func TestSymbolAlignment(t *testing.T) {
	// Payload lengths chosen to exercise every padding amount.
	objects := map[string][]byte{
		"a": []byte("x"),
		"b": []byte("xy"),
		"c": []byte("xyz"),
		"d": []byte("wxyz"),
		"e": {},
	}
	raw := buildImage(t, false, objects)
	img, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, sym := range img.Symbols() {
		if sym.Offset%4 != 0 {
			t.Errorf("symbol %q at misaligned offset %d", sym.Name, sym.Offset)
		}
	}
}

func TestBuildID(t *testing.T) {
	var b Builder
	if err := b.Add("x", []byte("data")); err != nil {
		t.Fatal(err)
	}
	raw, err := b.Encode()
	if err != nil {
		t.Fatal(err)
	}
	img, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if img.BuildID() == uuid.Nil {
		t.Error("BuildID should be generated when unset")
	}

	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	b2 := Builder{BuildID: id}
	if err := b2.Add("x", []byte("data")); err != nil {
		t.Fatal(err)
	}
	raw2, err := b2.Encode()
	if err != nil {
		t.Fatal(err)
	}
	img2, err := Parse(raw2)
	if err != nil {
		t.Fatal(err)
	}
	if img2.BuildID() != id {
		t.Errorf("BuildID = %v, want %v", img2.BuildID(), id)
	}
}

func TestBuilderRejectsDuplicates(t *testing.T) {
	var b Builder
	if err := b.Add("x", []byte("one")); err != nil {
		t.Fatal(err)
	}
	err := b.Add("x", []byte("two"))
	if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseBuild, Kind: fderr.KindDuplicate}) {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if err := b.Add("", []byte("anon")); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestAddFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	content := []byte("file-backed payload")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	var b Builder
	if err := b.AddFile("blob", path); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	raw, err := b.Encode()
	if err != nil {
		t.Fatal(err)
	}
	img, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got := payloadAt(t, img, "blob"); !bytes.Equal(got, content) {
		t.Errorf("payload = %q, want %q", got, content)
	}

	if err := b.AddFile("missing", filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseErrors(t *testing.T) {
	valid := buildImage(t, false, map[string][]byte{"x": []byte("data")})

	t.Run("bad magic", func(t *testing.T) {
		raw := append([]byte{}, valid...)
		raw[0] ^= 0xff
		_, err := Parse(raw)
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindInvalidMagic}) {
			t.Errorf("expected invalid magic error, got %v", err)
		}
	})

	t.Run("bad version", func(t *testing.T) {
		raw := append([]byte{}, valid...)
		raw[4] = 0x7f
		_, err := Parse(raw)
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindInvalidVersion}) {
			t.Errorf("expected invalid version error, got %v", err)
		}
	})

	t.Run("unknown flags", func(t *testing.T) {
		raw := append([]byte{}, valid...)
		raw[24] |= 0x80 // flags word follows magic+version+buildID
		_, err := Parse(raw)
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindUnsupported}) {
			t.Errorf("expected unsupported error, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		for _, n := range []int{0, 3, 7, 20, len(valid) - 1} {
			if _, err := Parse(valid[:n]); err == nil {
				t.Errorf("Parse of %d-byte prefix should fail", n)
			}
		}
	})

	t.Run("truncated error carries field and position", func(t *testing.T) {
		// 7 bytes: magic parses, the version word is cut short.
		_, err := Parse(valid[:7])
		var de *binary.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected a position-tracked decode error, got %v", err)
		}
		if de.Field != "version" || de.Position != 4 {
			t.Errorf("DecodeError = %+v, want field \"version\" at position 4", de)
		}
		if !errors.Is(err, binary.ErrUnexpectedEnd) {
			t.Errorf("cause chain should reach ErrUnexpectedEnd, got %v", err)
		}
	})

	t.Run("truncated compressed section", func(t *testing.T) {
		raw := buildImage(t, true, map[string][]byte{"x": bytes.Repeat([]byte("abcd"), 64)})
		if _, err := Parse(raw[:len(raw)-1]); err == nil {
			t.Error("Parse of truncated snappy data should fail")
		}
	})
}

func TestParseRejectsBadSymbols(t *testing.T) {
	// Hand-build containers with hostile symbol tables around a single
	// valid 4-byte object at offset 0.
	build := func(offset uint32, length uint32) []byte {
		var buf bytes.Buffer
		le := func(v uint32) {
			var tmp [4]byte
			stdbinary.LittleEndian.PutUint32(tmp[:], v)
			buf.Write(tmp[:])
		}
		le(Magic)
		le(Version)
		buf.Write(make([]byte, BuildIDSize))
		le(0)                     // flags
		buf.WriteByte(1)          // symCount
		buf.WriteByte(1)          // name length
		buf.WriteByte('x')        // name
		writeLEB(&buf, offset)    // symbol offset
		buf.WriteByte(8)          // dataLen
		le(length)                // object header
		buf.Write([]byte("abcd")) // payload
		return buf.Bytes()
	}

	t.Run("misaligned offset", func(t *testing.T) {
		_, err := Parse(build(2, 4))
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindMisaligned}) {
			t.Errorf("expected misaligned error, got %v", err)
		}
	})

	t.Run("offset past data", func(t *testing.T) {
		_, err := Parse(build(64, 4))
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindOutOfBounds}) {
			t.Errorf("expected out of bounds error, got %v", err)
		}
	})

	t.Run("payload past data", func(t *testing.T) {
		_, err := Parse(build(0, 100))
		if !errors.Is(err, &fderr.Error{Phase: fderr.PhaseParse, Kind: fderr.KindInvalidData}) {
			t.Errorf("expected invalid data error, got %v", err)
		}
	})
}

func writeLEB(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func TestWriteTo(t *testing.T) {
	var b Builder
	if err := b.Add("x", []byte("data")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, buf.Len())
	}
	if _, err := Parse(buf.Bytes()); err != nil {
		t.Errorf("Parse of WriteTo output: %v", err)
	}
}
