// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the slidev2pptx pipeline:
// the Page sequence produced from the exported presenter notes, slide
// geometry, and stage configuration.
package types

import (
	"errors"
	"fmt"
)

// Page is one output slide: a single exported click-state image plus the
// presenter notes that belong to exactly that click state.
type Page struct {
	// ImagePath is the image path as written in the notes document
	// (e.g. "./slides-export/001-01.png"), relative to the deck directory.
	ImagePath string `json:"image_path" yaml:"image_path"`

	// SlideIndex is the logical slide number (first numeric filename segment).
	// Several Pages share a SlideIndex, one per click reveal.
	SlideIndex int `json:"slide_index" yaml:"slide_index"`

	// ClickIndex is the reveal state within the slide (second numeric segment).
	ClickIndex int `json:"click_index" yaml:"click_index"`

	// Notes is the presenter-notes text for this click state, empty if none.
	Notes string `json:"notes" yaml:"notes"`
}

// ErrInvalidGeometry is returned when a slide size cannot produce an aspect ratio.
var ErrInvalidGeometry = errors.New("invalid slide geometry")

// SlideSize holds the pixel dimensions shared by every exported image.
type SlideSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// AspectRatio returns Width/Height. A non-positive dimension is an error.
func (s SlideSize) AspectRatio() (float64, error) {
	if s.Height <= 0 || s.Width <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, s.Width, s.Height)
	}
	return float64(s.Width) / float64(s.Height), nil
}

// String formats the size as WxH.
func (s SlideSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
