// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runFunc       func(dir, name string, args []string, stdout, stderr io.Writer) error

	gotDir  string
	gotName string
	gotArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunCaptured(_ context.Context, dir, name string, args []string, stdout, stderr io.Writer) error {
	m.gotDir, m.gotName, m.gotArgs = dir, name, args
	if m.runFunc != nil {
		return m.runFunc(dir, name, args, stdout, stderr)
	}
	return nil
}

// writeArtifacts simulates a successful Slidev export in dir.
func writeArtifacts(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, types.ExportImageDir), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, types.ExportNotesFile), []byte("![](./slides-export/001-01.png)\n\n"), 0o644)
}

func TestDetectRunner(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "pnpm available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pnpm": true},
				runnableCmds:  map[string]bool{"pnpm --version": true},
			},
			wantName: "pnpm",
		},
		{
			name: "npm fallback when pnpm missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"npm": true},
				runnableCmds:  map[string]bool{"npm --version": true},
			},
			wantName: "npm",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "pnpm on PATH but broken, npm works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pnpm": true, "npm": true},
				runnableCmds:  map[string]bool{"npm --version": true},
			},
			wantName: "npm",
		},
		{
			name: "both available, pnpm preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pnpm": true, "npm": true},
				runnableCmds:  map[string]bool{"pnpm --version": true, "npm --version": true},
			},
			wantName: "pnpm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := detectRunner(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrNoRunner) {
					t.Errorf("error should wrap ErrNoRunner, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("got runner %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestNewRunner(t *testing.T) {
	both := func() *mockExecutor {
		return &mockExecutor{
			availableBins: map[string]bool{"pnpm": true, "npm": true},
			runnableCmds:  map[string]bool{"pnpm --version": true, "npm --version": true},
		}
	}

	r, err := newRunner(types.RunnerNpm, both())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != "npm" {
		t.Errorf("got runner %q, want npm", r.Name())
	}

	r, err = newRunner("", both())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != "pnpm" {
		t.Errorf("auto should prefer pnpm, got %q", r.Name())
	}

	if _, err := newRunner("yarn", both()); !errors.Is(err, ErrUnknownRunnerName) {
		t.Errorf("expected ErrUnknownRunnerName, got %v", err)
	}

	if _, err := newRunner(types.RunnerPnpm, &mockExecutor{}); !errors.Is(err, ErrNoRunner) {
		t.Errorf("expected ErrNoRunner for unavailable pnpm, got %v", err)
	}
}

func TestExport_Args(t *testing.T) {
	tests := []struct {
		name     string
		mk       func(executor) *runner
		scale    int
		wantBin  string
		wantArgs string
	}{
		{
			name:     "pnpm",
			mk:       newPnpmRunner,
			scale:    2,
			wantBin:  "pnpm",
			wantArgs: "run export --format md --with-clicks --scale 2",
		},
		{
			name:     "npm needs separator",
			mk:       newNpmRunner,
			scale:    3,
			wantBin:  "npm",
			wantArgs: "run export -- --format md --with-clicks --scale 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := t.TempDir()
			exec := &mockExecutor{
				runFunc: func(dir, _ string, _ []string, _, _ io.Writer) error {
					return writeArtifacts(dir)
				},
			}
			r := tt.mk(exec)

			out, err := r.Export(context.Background(), deck, tt.scale)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.Join(exec.gotArgs, " "); got != tt.wantArgs {
				t.Errorf("args = %q, want %q", got, tt.wantArgs)
			}
			if exec.gotDir != deck {
				t.Errorf("dir = %q, want %q", exec.gotDir, deck)
			}
			if exec.gotName != tt.wantBin {
				t.Errorf("binary = %q", exec.gotName)
			}
			if out.NotesPath != filepath.Join(deck, "slides-export.md") {
				t.Errorf("notes path = %q", out.NotesPath)
			}
			if out.ImageDir != filepath.Join(deck, "slides-export") {
				t.Errorf("image dir = %q", out.ImageDir)
			}
		})
	}
}

func TestExport_CapturesOutput(t *testing.T) {
	deck := t.TempDir()
	exec := &mockExecutor{
		runFunc: func(dir, _ string, _ []string, stdout, stderr io.Writer) error {
			io.WriteString(stdout, "Exporting 12 slides\n")
			io.WriteString(stderr, "warning: chromium sandbox disabled\n")
			return writeArtifacts(dir)
		},
	}

	out, err := newPnpmRunner(exec).Export(context.Background(), deck, 2)
	if err != nil {
		t.Fatalf("stderr output alone must not fail the export: %v", err)
	}
	if out.Stdout != "Exporting 12 slides\n" {
		t.Errorf("stdout = %q", out.Stdout)
	}
	if out.Stderr != "warning: chromium sandbox disabled\n" {
		t.Errorf("stderr = %q", out.Stderr)
	}
}

func TestExport_CommandFailure(t *testing.T) {
	deck := t.TempDir()
	exec := &mockExecutor{
		runFunc: func(_, _ string, _ []string, _, stderr io.Writer) error {
			io.WriteString(stderr, "ERR_PNPM_NO_SCRIPT Missing script: export\n")
			return errors.New("exit status 1")
		},
	}

	out, err := newPnpmRunner(exec).Export(context.Background(), deck, 2)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Missing script: export") {
		t.Errorf("error should carry captured stderr, got: %v", err)
	}
	if out == nil || out.Stderr == "" {
		t.Error("output should be returned on command failure")
	}
}

func TestExport_MissingArtifacts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dir string) error
		want  string
	}{
		{
			name:  "nothing written",
			setup: func(string) error { return nil },
			want:  "notes file",
		},
		{
			name: "notes without images",
			setup: func(dir string) error {
				return os.WriteFile(filepath.Join(dir, types.ExportNotesFile), []byte("x"), 0o644)
			},
			want: "image directory",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := t.TempDir()
			exec := &mockExecutor{
				runFunc: func(dir, _ string, _ []string, _, _ io.Writer) error {
					return tt.setup(dir)
				},
			}
			_, err := newNpmRunner(exec).Export(context.Background(), deck, 2)
			if !errors.Is(err, ErrMissingArtifacts) {
				t.Fatalf("expected ErrMissingArtifacts, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
