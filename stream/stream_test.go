package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/embkit/flashdata/device"
	"github.com/embkit/flashdata/image"
	"github.com/embkit/flashdata/object"
)

func buildObject(t *testing.T, payload []byte) (object.Object, *device.Mem) {
	t.Helper()
	var b image.Builder
	if err := b.Add("blob", payload); err != nil {
		t.Fatal(err)
	}
	raw, err := b.Encode()
	if err != nil {
		t.Fatal(err)
	}
	img, err := image.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	dev := device.NewMem(img.Data(), 0)
	store := object.NewStore(img, dev, 0)
	obj, ok := store.Object("blob")
	if !ok {
		t.Fatal("object not found")
	}
	return obj, dev
}

func TestSequentialRead(t *testing.T) {
	payload := []byte("This is a test\x00Another test\x00hello")
	for _, mode := range []Mode{Cached, Direct} {
		name := "cached"
		if mode == Direct {
			name = "direct"
		}
		t.Run(name, func(t *testing.T) {
			obj, _ := buildObject(t, payload)
			r := New(obj, mode)

			if r.Len() != len(payload) {
				t.Errorf("Len = %d, want %d", r.Len(), len(payload))
			}
			if r.Available() != len(payload) {
				t.Errorf("Available = %d, want %d", r.Available(), len(payload))
			}
			if r.Finished() {
				t.Error("fresh stream should not be finished")
			}

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("ReadAll = %q, want %q", got, payload)
			}
			if !r.Finished() || r.Available() != 0 {
				t.Error("drained stream should be finished with nothing available")
			}
		})
	}
}

func TestSmallBlocks(t *testing.T) {
	payload := []byte("0123456789")
	obj, _ := buildObject(t, payload)
	r := New(obj, Cached)

	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("blocks reassembled to %q", out)
	}
}

func TestDirectModeUsesDevice(t *testing.T) {
	obj, dev := buildObject(t, bytes.Repeat([]byte("x"), 100))

	if _, err := io.ReadAll(New(obj, Cached)); err != nil {
		t.Fatal(err)
	}
	if dev.Reads() != 0 {
		t.Errorf("cached stream touched the device %d times", dev.Reads())
	}

	if _, err := io.ReadAll(New(obj, Direct)); err != nil {
		t.Fatal(err)
	}
	if dev.Reads() == 0 {
		t.Error("direct stream never touched the device")
	}
}

func TestSeek(t *testing.T) {
	payload := []byte("abcdefghij")
	obj, _ := buildObject(t, payload)
	r := New(obj, Cached)

	tests := []struct {
		offset int64
		whence int
		want   int64
	}{
		{4, io.SeekStart, 4},
		{2, io.SeekCurrent, 6},
		{-3, io.SeekEnd, 7},
		{0, io.SeekStart, 0},
		{100, io.SeekStart, 10}, // clamped to length
		{5, io.SeekEnd, 10},     // clamped to length
	}
	for _, tt := range tests {
		got, err := r.Seek(tt.offset, tt.whence)
		if err != nil {
			t.Fatalf("Seek(%d, %d): %v", tt.offset, tt.whence, err)
		}
		if got != tt.want {
			t.Errorf("Seek(%d, %d) = %d, want %d", tt.offset, tt.whence, got, tt.want)
		}
	}

	if _, err := r.Seek(-1, io.SeekStart); err == nil {
		t.Error("seek before start should fail")
	}
	if _, err := r.Seek(0, 42); err == nil {
		t.Error("invalid whence should fail")
	}

	// Seek then read resumes at the new position.
	if _, err := r.Seek(6, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "ghij" {
		t.Errorf("read after seek = %q, want %q", rest, "ghij")
	}
}

func TestEmptyStream(t *testing.T) {
	obj, _ := buildObject(t, nil)
	r := New(obj, Cached)
	if !r.Finished() || r.Available() != 0 || r.Len() != 0 {
		t.Error("empty stream state wrong")
	}
	var buf [4]byte
	if n, err := r.Read(buf[:]); n != 0 || err != io.EOF {
		t.Errorf("Read = %d, %v; want 0, EOF", n, err)
	}

	var zero Reader
	if n, err := zero.Read(buf[:]); n != 0 || err != io.EOF {
		t.Errorf("zero Reader Read = %d, %v; want 0, EOF", n, err)
	}
}
