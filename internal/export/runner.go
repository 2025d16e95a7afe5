// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs the Slidev export script of a deck and locates the
// artifacts it produces: a presenter-notes markdown file and a directory of
// per-click PNG images.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/slidev2pptx/pkg/types"
)

const (
	binPnpm = "pnpm"
	binNpm  = "npm"
)

var (
	ErrNoRunner          = errors.New("no package manager available")
	ErrMissingArtifacts  = errors.New("export artifacts not found")
	ErrUnknownRunnerName = errors.New("unknown runner")
)

// Runner runs a deck's export script through a package manager.
type Runner interface {
	// Name returns the package manager name ("pnpm" or "npm").
	Name() string

	// Available reports whether the binary exists on PATH and answers
	// --version.
	Available() bool

	// Export runs the export in deckDir and blocks until it finishes.
	// The returned Output is non-nil whenever the command was started, so
	// callers can show what the tool printed even on failure.
	Export(ctx context.Context, deckDir string, scale int) (*Output, error)
}

// Output is what one export run printed and produced.
type Output struct {
	Stdout string
	Stderr string

	// NotesPath is the presenter-notes markdown file.
	NotesPath string

	// ImageDir is the directory of exported PNGs.
	ImageDir string
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCaptured(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCaptured(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runner implements Runner for one package manager. pnpm and npm differ only
// in the binary and in npm needing "--" before script arguments.
type runner struct {
	bin       string
	separator bool
	exec      executor
}

func (r *runner) Name() string { return r.bin }

func (r *runner) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "--version") == nil
}

// args builds: run export [--] --format md --with-clicks --scale N
func (r *runner) args(scale int) []string {
	args := []string{"run", "export"}
	if r.separator {
		args = append(args, "--")
	}
	return append(args, "--format", "md", "--with-clicks", "--scale", strconv.Itoa(scale))
}

func (r *runner) Export(ctx context.Context, deckDir string, scale int) (*Output, error) {
	args := r.args(scale)
	slog.Info("export: running slidev export", "runner", r.bin, "dir", deckDir, "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	runErr := r.exec.RunCaptured(ctx, deckDir, r.bin, args, &stdout, &stderr)
	out := &Output{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		NotesPath: filepath.Join(deckDir, types.ExportNotesFile),
		ImageDir:  filepath.Join(deckDir, types.ExportImageDir),
	}
	if runErr != nil {
		return out, fmt.Errorf("running %s %s in %s: %w%s", r.bin, strings.Join(args, " "), deckDir, runErr, diagnostic(out.Stderr))
	}

	if err := checkArtifacts(out); err != nil {
		return out, err
	}
	return out, nil
}

// checkArtifacts verifies the export left its notes file and image directory.
func checkArtifacts(out *Output) error {
	if info, err := os.Stat(out.NotesPath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: notes file %s", ErrMissingArtifacts, out.NotesPath)
	}
	if info, err := os.Stat(out.ImageDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: image directory %s", ErrMissingArtifacts, out.ImageDir)
	}
	return nil
}

func diagnostic(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	return "\n" + stderr
}

func newPnpmRunner(exec executor) *runner {
	return &runner{bin: binPnpm, exec: exec}
}

func newNpmRunner(exec executor) *runner {
	return &runner{bin: binNpm, separator: true, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectRunner tries pnpm first, falls back to npm. Returns an error if
// neither is available.
func DetectRunner() (Runner, error) {
	return detectRunner(defaultExec)
}

func detectRunner(exec executor) (Runner, error) {
	pnpm := newPnpmRunner(exec)
	if pnpm.Available() {
		return pnpm, nil
	}

	npm := newNpmRunner(exec)
	if npm.Available() {
		return npm, nil
	}

	return nil, fmt.Errorf("%w: neither %s nor %s found or operational", ErrNoRunner, binPnpm, binNpm)
}

// NewRunner returns the runner named by name; RunnerAuto (or "") detects.
func NewRunner(name types.RunnerName) (Runner, error) {
	return newRunner(name, defaultExec)
}

func newRunner(name types.RunnerName, exec executor) (Runner, error) {
	var r *runner
	switch name {
	case types.RunnerAuto, "":
		return detectRunner(exec)
	case types.RunnerPnpm:
		r = newPnpmRunner(exec)
	case types.RunnerNpm:
		r = newNpmRunner(exec)
	default:
		return nil, fmt.Errorf("%w %q: use auto, pnpm, or npm", ErrUnknownRunnerName, name)
	}
	if !r.Available() {
		return nil, fmt.Errorf("%w: %s not found or operational", ErrNoRunner, r.bin)
	}
	return r, nil
}
