// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	// imageEmbedPrefix opens a markdown image embed; it marks a slide line.
	imageEmbedPrefix = "!["

	// ClickMarker separates the notes of consecutive click reveals.
	ClickMarker = "[click]"

	imageExt = ".png"
)

// imagePathPattern captures the path between the nearest "(" and the first
// following ".png)".
var imagePathPattern = regexp.MustCompile(`\(([^(]*?\.png)\)`)

// IsSlideLine reports whether line is a slide-image reference.
func IsSlideLine(line string) bool {
	return strings.HasPrefix(line, imageEmbedPrefix)
}

// ExtractImagePath returns the PNG path embedded in a slide line.
func ExtractImagePath(line string) (string, error) {
	m := imagePathPattern.FindStringSubmatch(line)
	if m == nil {
		return "", ErrMalformedReference
	}
	return m[1], nil
}

// FileIndex is the decoded <slide>-<click>.png filename.
type FileIndex struct {
	Slide int
	Click int
}

// BaseName returns the filename part of an exported image path. Windows
// exports use backslashes ("./slides-export\001-01.png"), so both separators
// are accepted.
func BaseName(imagePath string) string {
	return path.Base(strings.ReplaceAll(imagePath, `\`, "/"))
}

// ParseFilename decodes a base filename of shape <slide>-<click>.png, where
// both parts are decimal and may be zero-padded.
func ParseFilename(name string) (FileIndex, error) {
	stem, ok := strings.CutSuffix(name, imageExt)
	if !ok {
		return FileIndex{}, fmt.Errorf("%w: %q: missing %s extension", ErrInvalidFilename, name, imageExt)
	}
	slidePart, clickPart, ok := strings.Cut(stem, "-")
	if !ok {
		return FileIndex{}, fmt.Errorf("%w: %q: missing '-' separator", ErrInvalidFilename, name)
	}
	slide, err := parseIndex(slidePart)
	if err != nil {
		return FileIndex{}, fmt.Errorf("%w: %q: slide part: %v", ErrInvalidFilename, name, err)
	}
	click, err := parseIndex(clickPart)
	if err != nil {
		return FileIndex{}, fmt.Errorf("%w: %q: click part: %v", ErrInvalidFilename, name, err)
	}
	return FileIndex{Slide: slide, Click: click}, nil
}

// parseIndex accepts only non-empty runs of ASCII digits.
func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}
