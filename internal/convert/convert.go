// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a Slidev export (presenter-notes markdown plus
// per-click PNGs) into a PPTX file and chains the export stage in front of it.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdiddy/slidev2pptx/internal/geometry"
	"github.com/pdiddy/slidev2pptx/internal/slides"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// Report holds the outcome of a build.
type Report struct {
	OutputPath string
	Pages      []types.Page
	Size       types.SlideSize
	Warnings   []slides.Warning
}

// HasWarnings reports whether the notes produced any warnings.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// LoadPages reads the notes document at notesPath and returns its page
// sequence together with all parse and cross-check warnings.
func LoadPages(notesPath string) (*slides.Result, error) {
	data, err := os.ReadFile(notesPath)
	if err != nil {
		return nil, fmt.Errorf("reading notes %s: %w", notesPath, err)
	}
	notes := string(data)

	res, err := slides.BuildPages(notes)
	if err != nil {
		return nil, fmt.Errorf("parsing notes %s: %w", notesPath, err)
	}
	res.Warnings = append(res.Warnings, slides.CrossCheck(notes, res.Pages)...)
	return res, nil
}

// BuildPPTX converts an existing export into cfg.OutputPath. Image paths in
// the notes are relative to the parent of cfg.ImageDir (the deck directory).
func BuildPPTX(cfg types.BuildConfig, w io.Writer) (*Report, error) {
	res, err := LoadPages(cfg.NotesPath)
	if err != nil {
		return nil, err
	}
	slog.Info("convert: parsed notes", "path", cfg.NotesPath, "pages", len(res.Pages), "warnings", len(res.Warnings))

	for _, warning := range res.Warnings {
		slog.Warn("convert: notes warning", "line", warning.Line, "slide", warning.SlideIndex, "error", warning.Err)
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if cfg.Strict && len(res.Warnings) > 0 {
		return nil, fmt.Errorf("strict mode: %w", res.Warnings[0].AsError())
	}

	size, err := geometry.SlideSize(cfg.ImageDir)
	if err != nil {
		return nil, err
	}

	imageRoot := filepath.Dir(filepath.Clean(cfg.ImageDir))
	if err := Assemble(res.Pages, size, imageRoot, cfg.OutputPath, w); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "\nBuild summary: %d slides (%s) written to %s\n", len(res.Pages), size, cfg.OutputPath)
	return &Report{
		OutputPath: cfg.OutputPath,
		Pages:      res.Pages,
		Size:       size,
		Warnings:   res.Warnings,
	}, nil
}
