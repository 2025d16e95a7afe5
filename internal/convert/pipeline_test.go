// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/slidev2pptx/internal/export"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// fakeRunner implements export.Runner. The export itself is prepared by
// setupExport; the fake only reports canned tool output.
type fakeRunner struct {
	stdout string
	stderr string
	err    error

	gotScale int
}

func (f *fakeRunner) Name() string    { return "fake" }
func (f *fakeRunner) Available() bool { return true }

func (f *fakeRunner) Export(_ context.Context, deckDir string, scale int) (*export.Output, error) {
	f.gotScale = scale
	out := &export.Output{
		Stdout:    f.stdout,
		Stderr:    f.stderr,
		NotesPath: filepath.Join(deckDir, types.ExportNotesFile),
		ImageDir:  filepath.Join(deckDir, types.ExportImageDir),
	}
	if f.err != nil {
		return out, f.err
	}
	return out, nil
}

func TestRun(t *testing.T) {
	deck := setupExport(t, sampleNotes, 32, 18, sampleImages...)
	runner := &fakeRunner{
		stdout: "✓ exported 5 images\n",
		stderr: "(node:1) ExperimentalWarning\n",
	}

	var log bytes.Buffer
	report, err := Run(context.Background(), runner,
		types.ExportConfig{DeckDir: deck, Scale: 3},
		types.BuildConfig{OutputPath: filepath.Join(deck, "deck.pptx")},
		&log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.gotScale != 3 {
		t.Errorf("scale = %d, want 3", runner.gotScale)
	}
	if len(report.Pages) != 5 {
		t.Errorf("pages = %d, want 5", len(report.Pages))
	}

	out := log.String()
	for _, want := range []string{
		"Slidev export output (fake):",
		"✓ exported 5 images",
		"Slidev export error:",
		"ExperimentalWarning",
		"Build summary: 5 slides",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestRun_NoErrorSectionWhenStderrEmpty(t *testing.T) {
	deck := setupExport(t, sampleNotes, 32, 18, sampleImages...)

	var log bytes.Buffer
	_, err := Run(context.Background(), &fakeRunner{stdout: "done"},
		types.ExportConfig{DeckDir: deck, Scale: 2},
		types.BuildConfig{OutputPath: filepath.Join(deck, "deck.pptx")},
		&log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(log.String(), "Slidev export error:") {
		t.Error("error section should be omitted when stderr is empty")
	}
}

func TestRun_ExportFailure(t *testing.T) {
	deck := t.TempDir()
	runner := &fakeRunner{
		stderr: "Missing script: export",
		err:    errors.New("exit status 1"),
	}

	var log bytes.Buffer
	_, err := Run(context.Background(), runner,
		types.ExportConfig{DeckDir: deck, Scale: 2},
		types.BuildConfig{OutputPath: filepath.Join(deck, "deck.pptx")},
		&log)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "exporting deck") {
		t.Errorf("error should be wrapped with stage, got: %v", err)
	}
	if !strings.Contains(log.String(), "Missing script: export") {
		t.Error("captured export diagnostics should be printed")
	}
}

func TestRun_LogsExportSettings(t *testing.T) {
	deck := setupExport(t, sampleNotes, 32, 18, sampleImages...)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	_, err := Run(context.Background(), &fakeRunner{},
		types.ExportConfig{DeckDir: deck, Scale: 4, Runner: types.RunnerNpm},
		types.BuildConfig{OutputPath: filepath.Join(deck, "deck.pptx")},
		&out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"convert: exporting deck", "scale=4", "runner=npm"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs %q do not contain %q", logs.String(), want)
		}
	}
}
