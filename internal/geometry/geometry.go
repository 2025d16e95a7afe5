// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geometry reads pixel dimensions of the exported slide images.
package geometry

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/slidev2pptx/pkg/types"
)

const imageExt = ".png"

var (
	ErrEmptyDirectory     = errors.New("image directory empty")
	ErrUnexpectedFileType = errors.New("expected .png file")
)

// SlideSize returns the dimensions of the deck by sampling one image in dir.
// Every exported image shares the same size, so the first listed entry is
// used.
func SlideSize(dir string) (types.SlideSize, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return types.SlideSize{}, fmt.Errorf("reading image directory %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return types.SlideSize{}, fmt.Errorf("%w: %s", ErrEmptyDirectory, dir)
	}

	first := entries[0].Name()
	if !strings.EqualFold(filepath.Ext(first), imageExt) {
		return types.SlideSize{}, fmt.Errorf("%w, got: %s", ErrUnexpectedFileType, first)
	}
	return ImageSize(filepath.Join(dir, first))
}

// ImageSize decodes only the PNG header of the file at path.
func ImageSize(path string) (types.SlideSize, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.SlideSize{}, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return types.SlideSize{}, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return types.SlideSize{Width: cfg.Width, Height: cfg.Height}, nil
}
