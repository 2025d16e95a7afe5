// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/slidev2pptx/internal/geometry"
	"github.com/pdiddy/slidev2pptx/internal/pptx"
	"github.com/pdiddy/slidev2pptx/internal/slides"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// Assemble writes one slide per page to outputPath. The canvas keeps the
// default height and takes its width from the deck aspect ratio; each image
// fills the canvas height. Image paths are resolved against imageRoot.
// Progress lines go to w.
func Assemble(pages []types.Page, size types.SlideSize, imageRoot, outputPath string, w io.Writer) error {
	ratio, err := size.AspectRatio()
	if err != nil {
		return err
	}

	pres := pptx.New()
	pres.SetTitle(strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath)))
	height := pres.SlideHeight()
	if err := pres.SetSlideWidth(int64(float64(height) * ratio)); err != nil {
		return fmt.Errorf("sizing canvas for %s images: %w", size, err)
	}
	slog.Debug("convert: canvas", "size", size, "ratio", ratio, "width_emu", pres.SlideWidth(), "height_emu", height)

	for i, page := range pages {
		imgPath := ResolveImagePath(imageRoot, page.ImagePath)
		imgSize, err := geometry.ImageSize(imgPath)
		if err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		imgRatio, err := imgSize.AspectRatio()
		if err != nil {
			return fmt.Errorf("slide %d: %s: %w", i+1, imgPath, err)
		}

		slide := pres.AddSlide()
		if err := slide.AddPicture(imgPath, 0, 0, int64(float64(height)*imgRatio), height); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		slide.SetNotes(page.Notes)

		fmt.Fprintf(w, "slide %d: %s (%d chars of notes)\n", i+1, slides.BaseName(page.ImagePath), len(page.Notes))
	}

	slog.Debug("convert: saving", "path", outputPath, "slides", pres.Slides())
	if err := pres.Save(outputPath); err != nil {
		return fmt.Errorf("saving %s: %w", outputPath, err)
	}
	return nil
}

// ResolveImagePath maps a notes-document image path onto the filesystem.
// Relative paths are taken from root; backslash separators are accepted.
func ResolveImagePath(root, imagePath string) string {
	p := filepath.FromSlash(strings.ReplaceAll(imagePath, `\`, "/"))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
