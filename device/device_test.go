package device

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestMemReadAt(t *testing.T) {
	data := []byte("0123456789")
	m := NewMem(data, 0x1000)

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 0x1002)
	if err != nil || n != 4 {
		t.Fatalf("ReadAt = %d, %v", n, err)
	}
	if string(buf) != "2345" {
		t.Errorf("ReadAt content = %q", buf)
	}
	if m.Size() != 10 {
		t.Errorf("Size = %d, want 10", m.Size())
	}
	if m.Reads() != 1 {
		t.Errorf("Reads = %d, want 1", m.Reads())
	}

	// Below the mapped base.
	if _, err := m.ReadAt(buf, 0x0); err == nil {
		t.Error("read below base should fail")
	}
	// Past the end.
	if _, err := m.ReadAt(buf, 0x1000+20); err == nil {
		t.Error("read past end should fail")
	}
	// Short read at the tail is an error, not a silent truncation.
	if _, err := m.ReadAt(buf, 0x1008); err == nil {
		t.Error("short read should fail")
	}
}

func TestFileDevice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flash.bin")
	content := []byte("headerPAYLOADPAYLOAD")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// Physical address 0 maps to file offset 6, past the header.
	d, err := OpenFile(path, 6, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer d.Close()

	if d.Size() != uint32(len(content)-6) {
		t.Errorf("Size = %d, want %d", d.Size(), len(content)-6)
	}

	buf := make([]byte, 7)
	n, err := d.ReadAt(buf, 0)
	if err != nil || n != 7 {
		t.Fatalf("ReadAt = %d, %v", n, err)
	}
	if !bytes.Equal(buf, []byte("PAYLOAD")) {
		t.Errorf("ReadAt content = %q", buf)
	}
	if d.Reads() != 1 {
		t.Errorf("Reads = %d, want 1", d.Reads())
	}

	if _, err := d.ReadAt(buf, 1000); err == nil {
		t.Error("read past device size should fail")
	}

	if _, err := OpenFile(filepath.Join(dir, "missing.bin"), 0, 0); err == nil {
		t.Error("opening a missing file should fail")
	}
	if _, err := OpenFile(path, int64(len(content)+1), 0); err == nil {
		t.Error("offset past end of file should fail")
	}
}

func TestFileDeviceBoundedSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flash.bin")
	content := []byte("mappedEXTRA")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// Only the first 6 bytes are addressable; the rest of the file is
	// outside the mapped range and must never come back from a read.
	d, err := OpenFile(path, 0, 6)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer d.Close()

	buf := make([]byte, 8)
	n, err := d.ReadAt(buf, 4)
	if err == nil {
		t.Error("read spanning past device size should fail")
	}
	if n != 2 {
		t.Errorf("ReadAt = %d bytes, want 2", n)
	}
	if !bytes.Equal(buf[:n], []byte("ed")) {
		t.Errorf("ReadAt content = %q, leaked bytes past the mapped range", buf[:n])
	}
}
