// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// ImageDestinations returns the destination of every markdown image in src,
// in document order, as a CommonMark parser sees them.
func ImageDestinations(src []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var dests []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			dests = append(dests, string(img.Destination))
		}
		return ast.WalkContinue, nil
	})
	return dests
}

// CrossCheck compares the line-based page sequence with the images a full
// markdown parse finds. Images embedded inside notes text, or references the
// line grammar read differently, show up as warnings.
func CrossCheck(notes string, pages []types.Page) []Warning {
	dests := ImageDestinations([]byte(notes))

	var warnings []Warning
	n := min(len(dests), len(pages))
	for i := 0; i < n; i++ {
		if dests[i] != pages[i].ImagePath {
			warnings = append(warnings, Warning{
				SlideIndex: pages[i].SlideIndex,
				Err:        fmt.Errorf("%w: page %d is %q, markdown image is %q", ErrReferenceMismatch, i+1, pages[i].ImagePath, dests[i]),
			})
			// Later pairs are misaligned once one differs.
			return warnings
		}
	}
	if len(dests) != len(pages) {
		slide := 0
		if len(pages) > 0 {
			slide = pages[len(pages)-1].SlideIndex
		}
		warnings = append(warnings, Warning{
			SlideIndex: slide,
			Err:        fmt.Errorf("%w: %d pages, %d markdown images", ErrReferenceMismatch, len(pages), len(dests)),
		})
	}
	return warnings
}
