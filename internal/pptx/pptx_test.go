// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"archive/zip"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestSaveAndRead(t *testing.T) {
	dir := t.TempDir()
	img1 := filepath.Join(dir, "001-01.png")
	img2 := filepath.Join(dir, "002-01.png")
	writePNG(t, img1, 16, 9)
	writePNG(t, img2, 16, 9)

	p := New()
	p.SetTitle("Deck & <friends>")
	require.NoError(t, p.SetSlideWidth(12192000))

	s1 := p.AddSlide()
	require.NoError(t, s1.AddPicture(img1, 0, 0, 12192000, p.SlideHeight()))
	s1.SetNotes("Intro text.\n")

	s2 := p.AddSlide()
	require.NoError(t, s2.AddPicture(img2, 0, 0, 12192000, p.SlideHeight()))
	s2.SetNotes("  a < b & \"c\"\n\tindented\n\nlast")

	s3 := p.AddSlide()
	require.NoError(t, s3.AddPicture(img1, 0, 0, 12192000, p.SlideHeight()))

	out := filepath.Join(dir, "deck.pptx")
	require.NoError(t, p.Save(out))

	deck, err := Read(out)
	require.NoError(t, err)
	assert.Equal(t, int64(12192000), deck.SlideWidth)
	assert.Equal(t, DefaultSlideHeight, deck.SlideHeight)
	require.Len(t, deck.Slides, 3)

	assert.Equal(t, 1, deck.Slides[0].Number)
	assert.Equal(t, []string{"image1.png"}, deck.Slides[0].Images)
	assert.Equal(t, "Intro text.\n", deck.Slides[0].Notes)
	assert.Equal(t, []string{"image2.png"}, deck.Slides[1].Images)
	assert.Equal(t, "  a < b & \"c\"\n\tindented\n\nlast", deck.Slides[1].Notes)
	assert.Equal(t, "", deck.Slides[2].Notes)
	assert.Equal(t, []string{"image3.png"}, deck.Slides[2].Images)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestEncode_Parts(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "001-01.png")
	writePNG(t, img, 4, 3)

	p := New()
	s := p.AddSlide()
	require.NoError(t, s.AddPicture(img, 0, 0, DefaultSlideWidth, DefaultSlideHeight))

	out := filepath.Join(dir, "deck.pptx")
	require.NoError(t, p.Save(out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/notesSlides/notesSlide1.xml",
		"ppt/notesMasters/notesMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/theme/theme1.xml",
		"ppt/media/image1.png",
	} {
		assert.True(t, names[want], "missing part %s", want)
	}
	assert.Equal(t, "[Content_Types].xml", r.File[0].Name)
}

func TestSave_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	p := New()
	s := p.AddSlide()
	require.NoError(t, s.AddPicture(filepath.Join(dir, "missing.png"), 0, 0, 1, 1))

	err := p.Save(out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data), "existing output must be untouched")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be removed")
}

func TestAddPicture_RejectsNonPNG(t *testing.T) {
	s := New().AddSlide()
	err := s.AddPicture("slide.jpg", 0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrUnsupportedImg)
}

func TestSetSlideWidth(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultSlideWidth, p.SlideWidth())
	assert.ErrorIs(t, p.SetSlideWidth(100), ErrSlideSize)
	assert.ErrorIs(t, p.SetSlideWidth(maxSlideExtent+1), ErrSlideSize)
	require.NoError(t, p.SetSlideWidth(12192000))
	assert.Equal(t, int64(12192000), p.SlideWidth())
}

func TestRead_NotAPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pptx")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening PPTX")
}

func TestNotes_ControlCharactersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "001-01.png")
	writePNG(t, img, 16, 9)

	notes := []string{
		"x\x01y\x1fz",
		"literal _x0041_ stays",
		"nested _x005F_x0041_ stays",
		"bell\a and form\f feed",
		"plain snake_case_x text",
	}

	p := New()
	for _, n := range notes {
		s := p.AddSlide()
		require.NoError(t, s.AddPicture(img, 0, 0, p.SlideWidth(), p.SlideHeight()))
		s.SetNotes(n)
		assert.Equal(t, n, s.Notes())
	}
	assert.Equal(t, len(notes), p.Slides())

	out := filepath.Join(dir, "deck.pptx")
	require.NoError(t, p.Save(out))

	deck, err := Read(out)
	require.NoError(t, err)
	require.Len(t, deck.Slides, len(notes))
	for i, n := range notes {
		assert.Equal(t, n, deck.Slides[i].Notes, "slide %d", i+1)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a < b & c", want: "a &lt; b &amp; c"},
		{in: "x\x01y", want: "x_x0001_y"},
		{in: "_x0041_", want: "_x005F_x0041_"},
		{in: "snake_case", want: "snake_case"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escape(tt.in))
		})
	}
}
