// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	// DefaultOutputPath is where the PPTX is written when no output is given.
	DefaultOutputPath = "./slides-export.pptx"

	// DefaultScale is the image scale forwarded to the Slidev export.
	DefaultScale = 2

	// ExportNotesFile is the notes document Slidev writes beside the deck.
	ExportNotesFile = "slides-export.md"

	// ExportImageDir is the directory of per-click PNGs Slidev writes beside the deck.
	ExportImageDir = "slides-export"
)

// RunnerName selects the package manager used to run the Slidev export script.
type RunnerName string

const (
	RunnerAuto RunnerName = "auto"
	RunnerPnpm RunnerName = "pnpm"
	RunnerNpm  RunnerName = "npm"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// DeckDir is the Slidev project directory (default "./").
	DeckDir string `json:"deck_dir" yaml:"deck_dir"`

	// Scale is forwarded verbatim as --scale to the export (default 2).
	Scale int `json:"scale" yaml:"scale"`

	// Runner picks pnpm, npm, or auto-detection (pnpm first).
	Runner RunnerName `json:"runner" yaml:"runner"`
}

// BuildConfig holds settings for building a PPTX from an existing export.
type BuildConfig struct {
	// NotesPath is the exported presenter-notes markdown file.
	NotesPath string `json:"notes_path" yaml:"notes_path"`

	// ImageDir is the directory holding the exported PNGs.
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// OutputPath is the PPTX destination.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Strict turns notes warnings (extra [click] fragments, reference
	// mismatches) into errors.
	Strict bool `json:"strict" yaml:"strict"`
}
