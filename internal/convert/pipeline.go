// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/slidev2pptx/internal/export"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

const separator = "---------------------"

// Run exports the deck with runner, shows what the export tool printed, and
// builds the PPTX from its artifacts. A non-empty error stream is shown but
// does not stop the build.
func Run(ctx context.Context, runner export.Runner, exp types.ExportConfig, build types.BuildConfig, w io.Writer) (*Report, error) {
	slog.Info("convert: exporting deck", "dir", exp.DeckDir, "scale", exp.Scale, "runner", exp.Runner)
	out, err := runner.Export(ctx, exp.DeckDir, exp.Scale)
	if out != nil {
		printExportOutput(w, runner.Name(), out)
	}
	if err != nil {
		return nil, fmt.Errorf("exporting deck: %w", err)
	}

	build.NotesPath = out.NotesPath
	build.ImageDir = out.ImageDir
	return BuildPPTX(build, w)
}

func printExportOutput(w io.Writer, name string, out *export.Output) {
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Slidev export output (%s):\n", name)
	fmt.Fprintln(w, strings.TrimRight(out.Stdout, "\n"))
	fmt.Fprintln(w, separator)
	if out.Stderr != "" {
		fmt.Fprintln(w, "Slidev export error:")
		fmt.Fprintln(w, strings.TrimRight(out.Stderr, "\n"))
		fmt.Fprintln(w, separator)
	}
}
