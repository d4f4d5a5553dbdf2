// Command flashinspect lists and previews the objects inside a firmware
// image. With a terminal attached it starts an interactive browser;
// otherwise (or with -list) it prints a plain listing.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/embkit/flashdata/device"
	"github.com/embkit/flashdata/image"
	"github.com/embkit/flashdata/object"
	"github.com/embkit/flashdata/stream"
)

func main() {
	var (
		imagePath = flag.String("image", "", "Path to image file")
		dumpName  = flag.String("dump", "", "Write one object's payload to stdout and exit")
		list      = flag.Bool("list", false, "Plain listing, no TUI")
		direct    = flag.Bool("direct", false, "Read payloads through the file device instead of the mapped copy")
	)
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: flashinspect -image <file.fim> [-list] [-dump name] [-direct]")
		os.Exit(1)
	}

	store, err := loadStore(*imagePath, *direct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mode := stream.Cached
	if *direct {
		mode = stream.Direct
	}

	switch {
	case *dumpName != "":
		err = dump(store, *dumpName, mode)
	case *list || !term.IsTerminal(int(os.Stdout.Fd())):
		err = printListing(store, *imagePath)
	default:
		err = runInteractive(store, *imagePath, mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadStore parses the image and maps it over a device. In direct mode
// the device is the image file itself with physical address 0 at the
// start of the data section; that only works for uncompressed images,
// so compressed ones fall back to a memory device over the decompressed
// section.
func loadStore(path string, direct bool) (*object.Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := image.Parse(raw)
	if err != nil {
		return nil, err
	}

	if direct {
		dataOff := int64(len(raw) - len(img.Data()))
		if dataOff >= 0 && bytes.Equal(raw[dataOff:], img.Data()) {
			dev, err := device.OpenFile(path, dataOff, uint32(len(img.Data())))
			if err != nil {
				return nil, err
			}
			return object.NewStore(img, dev, 0), nil
		}
	}
	return object.NewStore(img, device.NewMem(img.Data(), 0), 0), nil
}

func printListing(store *object.Store, path string) error {
	fmt.Printf("Image: %s\n", path)
	fmt.Printf("%-24s %10s %10s %10s\n", "NAME", "OFFSET", "LENGTH", "SIZE")
	for _, sym := range store.Symbols() {
		obj := store.At(sym.Offset)
		fmt.Printf("%-24s %10d %10d %10d\n", sym.Name, sym.Offset, obj.Length(), obj.Size())
	}
	return nil
}

func dump(store *object.Store, name string, mode stream.Mode) error {
	obj, ok := store.Object(name)
	if !ok {
		return fmt.Errorf("object %q not found", name)
	}
	r := stream.New(obj, mode)
	buf := make([]byte, 4096)
	for !r.Finished() {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			break
		}
	}
	return nil
}
