// Command mkimage builds a firmware image from a TOML manifest.
//
// Usage:
//
//	mkimage -manifest image.toml -o firmware.fim
//
// Manifest format:
//
//	[image]
//	compress = true
//
//	[[object]]
//	name = "greeting"
//	file = "files/greeting.txt"
//
//	[[object]]
//	name = "motd"
//	text = "welcome aboard"
//
// Each object must set exactly one of file or text. Paths are resolved
// relative to the manifest's directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/embkit/flashdata/errors"
	"github.com/embkit/flashdata/image"
)

type manifest struct {
	Image   imageConfig    `toml:"image"`
	Objects []objectConfig `toml:"object"`
}

type imageConfig struct {
	Compress bool `toml:"compress"`
}

type objectConfig struct {
	Name string `toml:"name"`
	File string `toml:"file"`
	Text string `toml:"text"`
}

func main() {
	var (
		manifestPath = flag.String("manifest", "", "Path to TOML manifest")
		output       = flag.String("o", "firmware.fim", "Output image path")
		verbose      = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: mkimage -manifest <image.toml> [-o out.fim]")
		os.Exit(1)
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := run(logger, *manifestPath, *output); err != nil {
		logger.Error("build failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func run(logger *zap.Logger, manifestPath, output string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(manifestPath)
	b := image.Builder{Compress: m.Image.Compress}
	for _, obj := range m.Objects {
		switch {
		case obj.File != "":
			path := obj.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			if err := b.AddFile(obj.Name, path); err != nil {
				return err
			}
			logger.Debug("added object", zap.String("name", obj.Name), zap.String("file", path))
		default:
			if err := b.Add(obj.Name, []byte(obj.Text)); err != nil {
				return err
			}
			logger.Debug("added object", zap.String("name", obj.Name), zap.Int("bytes", len(obj.Text)))
		}
	}

	raw, err := b.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, raw, 0o644); err != nil {
		return errors.Wrap(errors.PhaseBuild, errors.KindInvalidInput, err, "write output")
	}

	logger.Info("image written",
		zap.String("path", output),
		zap.String("buildID", mustBuildID(raw)),
		zap.Int("objects", b.Len()),
		zap.Int("bytes", len(raw)),
		zap.Bool("compressed", m.Image.Compress),
	)
	return nil
}

func loadManifest(path string) (*manifest, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "decode manifest")
	}
	if len(m.Objects) == 0 {
		return nil, errors.New(errors.PhaseManifest, errors.KindInvalidInput).
			Detail("manifest defines no objects").
			Build()
	}
	for _, obj := range m.Objects {
		if obj.Name == "" {
			return nil, errors.New(errors.PhaseManifest, errors.KindInvalidInput).
				Detail("object with empty name").
				Build()
		}
		if obj.File != "" && obj.Text != "" {
			return nil, errors.New(errors.PhaseManifest, errors.KindInvalidInput).
				Object(obj.Name).
				Detail("set exactly one of file or text").
				Build()
		}
	}
	return &m, nil
}

func mustBuildID(raw []byte) string {
	img, err := image.Parse(raw)
	if err != nil {
		return "unknown"
	}
	return img.BuildID().String()
}
