// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slides correlates the presenter notes of a Slidev markdown export
// with the exported per-click images. The notes document interleaves two line
// shapes: slide references (![...](./slides-export/001-01.png)) and free
// notes text. Notes following a slide's references belong to that slide and
// are split across its click reveals on the [click] marker.
package slides

import (
	"strings"
	"unicode"

	"github.com/pdiddy/slidev2pptx/pkg/types"
)

type state int

const (
	awaitingLine state = iota
	justSawSlide
	accumulatingNotes
)

// Result is the outcome of BuildPages.
type Result struct {
	// Pages holds one entry per slide reference, in document order.
	Pages []types.Page

	// Warnings lists non-fatal findings in the order they were detected.
	Warnings []Warning
}

// builder owns the page sequence and the notes buffer for one parse.
type builder struct {
	state     state
	pages     []types.Page
	notes     strings.Builder
	notesLine int
	warnings  []Warning
}

// BuildPages parses a notes document into its Page sequence. Lines are split
// on "\n" (CRLF endings are read as "\n") with empty lines preserved. The
// first structural violation aborts the parse with a *LineError.
func BuildPages(notes string) (*Result, error) {
	lines := strings.Split(strings.ReplaceAll(notes, "\r\n", "\n"), "\n")
	last := len(lines) - 1

	b := &builder{}
	for i, line := range lines {
		if err := b.feed(i+1, line, i == last); err != nil {
			return nil, err
		}
	}
	return &Result{Pages: b.pages, Warnings: b.warnings}, nil
}

func (b *builder) feed(lineNo int, line string, last bool) error {
	if b.state == justSawSlide {
		if line != "" {
			return &LineError{Line: lineNo, Text: line, Err: ErrUnexpectedContent}
		}
		b.state = awaitingLine
		return nil
	}

	slide := IsSlideLine(line)
	if !slide {
		if b.notes.Len() == 0 {
			b.notesLine = lineNo
		}
		b.notes.WriteString(line)
		b.notes.WriteByte('\n')
		b.state = accumulatingNotes
	}

	if (slide || last) && b.notes.Len() > 0 {
		if err := b.flush(); err != nil {
			return err
		}
	}

	if slide {
		page, err := parseReference(line)
		if err != nil {
			return &LineError{Line: lineNo, Text: line, Err: err}
		}
		if n := len(b.pages); n > 0 && page.SlideIndex < b.pages[n-1].SlideIndex {
			b.warn(lineNo, page.SlideIndex, ErrSlideOrder)
		}
		b.pages = append(b.pages, page)
		b.state = justSawSlide
	}
	return nil
}

// flush distributes the buffered notes over the click reveals of the most
// recently opened slide. Those pages form a contiguous tail of b.pages
// because slide indexes never decrease in append order.
func (b *builder) flush() error {
	text := b.notes.String()
	b.notes.Reset()

	if len(b.pages) == 0 {
		first, _, _ := strings.Cut(text, "\n")
		return &LineError{Line: b.notesLine, Text: first, Err: ErrNotesWithoutSlide}
	}

	current := b.pages[len(b.pages)-1].SlideIndex
	start := len(b.pages)
	for start > 0 && b.pages[start-1].SlideIndex == current {
		start--
	}
	window := b.pages[start:]

	fragments := strings.Split(text, ClickMarker)
	for j, fragment := range fragments {
		if j >= len(window) {
			if strings.TrimSpace(strings.Join(fragments[j:], "")) != "" {
				b.warn(b.notesLine, current, ErrExtraFragments)
			}
			break
		}
		fragment = strings.TrimLeftFunc(fragment, unicode.IsSpace)
		if fragment == "" {
			continue
		}
		// First assignment wins.
		if window[j].Notes != "" {
			b.warn(b.notesLine, current, ErrNotesConflict)
			continue
		}
		window[j].Notes = fragment
	}
	return nil
}

func (b *builder) warn(line, slide int, err error) {
	b.warnings = append(b.warnings, Warning{Line: line, SlideIndex: slide, Err: err})
}

// parseReference turns a slide line into a Page with empty notes.
func parseReference(line string) (types.Page, error) {
	imagePath, err := ExtractImagePath(line)
	if err != nil {
		return types.Page{}, err
	}
	idx, err := ParseFilename(BaseName(imagePath))
	if err != nil {
		return types.Page{}, err
	}
	return types.Page{
		ImagePath:  imagePath,
		SlideIndex: idx.Slide,
		ClickIndex: idx.Click,
	}, nil
}
