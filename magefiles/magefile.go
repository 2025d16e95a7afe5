//go:build mage

// Package main contains Mage build targets for slidev2pptx developer tooling.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir    = "bin"
	binName   = "slidev2pptx"
	cmdPkg    = "./cmd/slidev2pptx"
	sampleDir = "sample"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// sampleSlides describes the synthetic deck written by Sample: clicks per
// slide and the notes attached to each slide.
var sampleSlides = []struct {
	clicks int
	notes  string
}{
	{clicks: 1, notes: "Welcome.\n"},
	{clicks: 3, notes: "Intro.\n[click] First point.\n[click] Second point.\n"},
	{clicks: 2, notes: ""},
	{clicks: 1, notes: "Thanks for listening.\n"},
}

// Sample writes a synthetic Slidev export into sample/ and converts it with
// the freshly built binary.
func Sample() error {
	mg.Deps(Build)

	imgDir := filepath.Join(sampleDir, "slides-export")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", imgDir, err)
	}

	var md strings.Builder
	for i, s := range sampleSlides {
		for c := 1; c <= s.clicks; c++ {
			name := fmt.Sprintf("%03d-%02d.png", i+1, c)
			if err := writeSamplePNG(filepath.Join(imgDir, name), uint8(40*i), uint8(60*c)); err != nil {
				return err
			}
			fmt.Fprintf(&md, "![](./slides-export/%s)\n\n", name)
		}
		md.WriteString(s.notes)
	}
	notesPath := filepath.Join(sampleDir, "slides-export.md")
	if err := os.WriteFile(notesPath, []byte(md.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", notesPath, err)
	}

	return sh.RunV(filepath.Join(binDir, binName), "build",
		"--notes", notesPath,
		"--images", imgDir,
		"--output", filepath.Join(sampleDir, "sample.pptx"))
}

func writeSamplePNG(path string, r, g uint8) error {
	img := image.NewRGBA(image.Rect(0, 0, 192, 108))
	fill := color.RGBA{R: r, G: g, B: 160, A: 255}
	for y := 0; y < 108; y++ {
		for x := 0; x < 192; x++ {
			img.Set(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// Clean removes build output and the sample deck.
func Clean() error {
	for _, dir := range []string{binDir, sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production and test LOC.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files,
// either only _test.go files or only the rest.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
