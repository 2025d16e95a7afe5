// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"errors"
	"fmt"
)

// Fatal notes-document errors. Each aborts the conversion.
var (
	ErrMalformedReference = errors.New("malformed slide reference")
	ErrInvalidFilename    = errors.New("invalid slide image filename")
	ErrUnexpectedContent  = errors.New("expected empty line after slide reference")
	ErrNotesWithoutSlide  = errors.New("notes without a slide")
)

// Warning kinds. They are reported, and become fatal only in strict mode.
var (
	ErrExtraFragments    = errors.New("more [click] fragments than slide pages")
	ErrNotesConflict     = errors.New("page already has notes")
	ErrSlideOrder        = errors.New("slide index decreased")
	ErrReferenceMismatch = errors.New("markdown image references disagree with slide pages")
)

// LineError ties a notes-document error to its 1-based line number.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// Warning is a non-fatal finding about the notes document. Line is 0 when
// the finding has no single source line.
type Warning struct {
	Line       int
	SlideIndex int
	Err        error
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("slide %d: %v", w.SlideIndex, w.Err)
	}
	return fmt.Sprintf("line %d: slide %d: %v", w.Line, w.SlideIndex, w.Err)
}

// AsError converts the warning into an error for strict mode.
func (w Warning) AsError() error {
	return &LineError{Line: w.Line, Err: fmt.Errorf("slide %d: %w", w.SlideIndex, w.Err)}
}
