// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptx writes PowerPoint (OOXML) presentations made of full-bleed
// picture slides with plain-text speaker notes, and reads them back for
// inspection.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// EMU (English Metric Units) per inch.
const EMUPerInch = 914400

// Default 4:3 canvas, matching PowerPoint's classic template.
const (
	DefaultSlideWidth  int64 = 9144000
	DefaultSlideHeight int64 = 6858000
)

// Bounds PowerPoint accepts for either slide dimension (1in to 56in).
const (
	minSlideExtent int64 = 914400
	maxSlideExtent int64 = 51206400
)

var (
	ErrSlideSize      = errors.New("slide size out of range")
	ErrUnsupportedImg = errors.New("unsupported picture format")
)

// Presentation is an in-memory deck. Nothing touches disk until Save.
type Presentation struct {
	title       string
	slideWidth  int64
	slideHeight int64
	slides      []*Slide
	media       int
}

// Slide is a blank-layout slide holding pictures and speaker notes.
type Slide struct {
	pres     *Presentation
	pictures []picture
	notes    string
}

type picture struct {
	src       string
	mediaName string
	x, y      int64
	cx, cy    int64
}

// New returns an empty presentation with the default canvas.
func New() *Presentation {
	return &Presentation{
		slideWidth:  DefaultSlideWidth,
		slideHeight: DefaultSlideHeight,
	}
}

// SetTitle sets the document title stored in the core properties.
func (p *Presentation) SetTitle(title string) { p.title = title }

// SlideWidth returns the canvas width in EMU.
func (p *Presentation) SlideWidth() int64 { return p.slideWidth }

// SlideHeight returns the canvas height in EMU.
func (p *Presentation) SlideHeight() int64 { return p.slideHeight }

// SetSlideWidth changes the canvas width in EMU.
func (p *Presentation) SetSlideWidth(emu int64) error {
	if emu < minSlideExtent || emu > maxSlideExtent {
		return fmt.Errorf("%w: width %d EMU", ErrSlideSize, emu)
	}
	p.slideWidth = emu
	return nil
}

// Slides returns the number of slides added so far.
func (p *Presentation) Slides() int { return len(p.slides) }

// AddSlide appends a blank slide.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{pres: p}
	p.slides = append(p.slides, s)
	return s
}

// AddPicture places the PNG at src on the slide with its top-left corner at
// (x, y) and extent (cx, cy), all in EMU. The file is read when the
// presentation is encoded.
func (s *Slide) AddPicture(src string, x, y, cx, cy int64) error {
	if !strings.EqualFold(filepath.Ext(src), ".png") {
		return fmt.Errorf("%w: %s", ErrUnsupportedImg, src)
	}
	s.pres.media++
	s.pictures = append(s.pictures, picture{
		src:       src,
		mediaName: fmt.Sprintf("image%d.png", s.pres.media),
		x:         x, y: y, cx: cx, cy: cy,
	})
	return nil
}

// SetNotes replaces the slide's speaker notes. Each "\n"-separated line
// becomes one paragraph.
func (s *Slide) SetNotes(text string) { s.notes = text }

// Notes returns the slide's speaker notes.
func (s *Slide) Notes() string { return s.notes }

// Save encodes the presentation next to path and renames it into place, so
// a failed write never leaves a partial file at path.
func (p *Presentation) Save(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = p.Encode(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmp.Name(), path, err)
	}
	slog.Debug("pptx: saved", "path", path, "slides", len(p.slides))
	return nil
}

// Encode writes the complete OOXML package to w.
func (p *Presentation) Encode(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", p.contentTypes()},
		{"_rels/.rels", rootRels},
		{"docProps/core.xml", p.coreProps()},
		{"docProps/app.xml", p.appProps()},
		{"ppt/presentation.xml", p.presentation()},
		{"ppt/_rels/presentation.xml.rels", p.presentationRels()},
		{"ppt/presProps.xml", presPropsXML},
		{"ppt/viewProps.xml", viewPropsXML},
		{"ppt/tableStyles.xml", tableStylesXML},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/notesMasters/notesMaster1.xml", notesMasterXML},
		{"ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRels},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/theme/theme2.xml", themeXML},
	}
	for _, part := range parts {
		if err := writePart(zw, part.name, part.body); err != nil {
			return err
		}
	}

	for i, s := range p.slides {
		n := i + 1
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), s.slideXML()); err != nil {
			return err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), s.slideRels(n)); err != nil {
			return err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), s.notesXML()); err != nil {
			return err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), notesRels(n)); err != nil {
			return err
		}
		for _, pic := range s.pictures {
			if err := copyMedia(zw, pic); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing pptx archive: %w", err)
	}
	return nil
}

func writePart(zw *zip.Writer, name, body string) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := io.WriteString(fw, body); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}

func copyMedia(zw *zip.Writer, pic picture) error {
	f, err := os.Open(pic.src)
	if err != nil {
		return fmt.Errorf("opening picture %s: %w", pic.src, err)
	}
	defer f.Close()

	// PNG data is already compressed.
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: "ppt/media/" + pic.mediaName, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("creating media %s: %w", pic.mediaName, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("copying picture %s: %w", pic.src, err)
	}
	return nil
}

func (p *Presentation) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="` + nsCT + `">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	override := func(part, ct string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, part, ct)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	override("/ppt/notesMasters/notesMaster1.xml", ctNotesMaster)
	override("/ppt/theme/theme1.xml", ctTheme)
	override("/ppt/theme/theme2.xml", ctTheme)
	override("/ppt/presProps.xml", ctPresProps)
	override("/ppt/viewProps.xml", ctViewProps)
	override("/ppt/tableStyles.xml", ctTableStyles)
	override("/docProps/core.xml", ctCoreProps)
	override("/docProps/app.xml", ctExtProps)
	for i := range p.slides {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i+1), ctSlide)
		override(fmt.Sprintf("/ppt/notesSlides/notesSlide%d.xml", i+1), ctNotesSlide)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func (p *Presentation) coreProps() string {
	return xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(p.title) + `</dc:title>` +
		`<cp:lastModifiedBy>slidev2pptx</cp:lastModifiedBy>` +
		`</cp:coreProperties>`
}

func (p *Presentation) appProps() string {
	return xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>slidev2pptx</Application>` +
		fmt.Sprintf(`<Slides>%d</Slides><Notes>%d</Notes>`, len(p.slides), len(p.slides)) +
		`</Properties>`
}

// presentation.xml.rels: rId1-rId6 are fixed parts, slides start at rId7.
const firstSlideRel = 7

func (p *Presentation) presentation() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + pmlNS + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:notesMasterIdLst><p:notesMasterId r:id="rId2"/></p:notesMasterIdLst>`)
	if len(p.slides) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range p.slides {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, firstSlideRel+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, p.slideWidth, p.slideHeight)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, notesWidth, notesHeight)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (p *Presentation) presentationRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsRel + `">`)
	rel := func(id int, typ, target string) {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, typ, target)
	}
	rel(1, relSlideMaster, "slideMasters/slideMaster1.xml")
	rel(2, relNotesMaster, "notesMasters/notesMaster1.xml")
	rel(3, relTheme, "theme/theme1.xml")
	rel(4, relPresProps, "presProps.xml")
	rel(5, relViewProps, "viewProps.xml")
	rel(6, relTableStyles, "tableStyles.xml")
	for i := range p.slides {
		rel(firstSlideRel+i, relSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// Slide rels: rId1 is the layout, pictures follow, the notes slide is last.
func (s *Slide) slideXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlNS + `><p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)
	for i, pic := range s.pictures {
		id := i + 2
		fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d" descr="%s"/>`, id, i+1, escape(filepath.Base(pic.src)))
		b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
		fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, id)
		fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, pic.x, pic.y, pic.cx, pic.cy)
		b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func (s *Slide) slideRels(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsRel + `">`)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%s" Target="../slideLayouts/slideLayout1.xml"/>`, relSlideLayout)
	for i, pic := range s.pictures {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="../media/%s"/>`, i+2, relImage, pic.mediaName)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`, len(s.pictures)+2, relNotesSlide, n)
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (s *Slide) notesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:notes ` + pmlNS + `><p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr><a:xfrm><a:off x="685800" y="685800"/><a:ext cx="5486400" cy="3429000"/></a:xfrm></p:spPr></p:sp>`)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr><a:xfrm><a:off x="685800" y="4343400"/><a:ext cx="5486400" cy="4114800"/></a:xfrm></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(s.notes, "\n") {
		if line == "" {
			b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
			continue
		}
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>` + escape(line) + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`)
	return b.String()
}

func notesRels(n int) string {
	return xmlHeader + `<Relationships xmlns="` + nsRel + `">` +
		`<Relationship Id="rId1" Type="` + relNotesMaster + `" Target="../notesMasters/notesMaster1.xml"/>` +
		fmt.Sprintf(`<Relationship Id="rId2" Type="%s" Target="../slides/slide%d.xml"/>`, relSlide, n) +
		`</Relationships>`
}

// xstringPattern matches an OOXML escaped character, e.g. "_x0001_", at the
// start of a string.
var xstringPattern = regexp.MustCompile(`^_x[0-9A-Fa-f]{4}_`)

// xstringToken finds every escaped character in decoded text.
var xstringToken = regexp.MustCompile(`_x[0-9A-Fa-f]{4}_`)

// escape makes s safe for XML text and attribute values. Control characters
// XML cannot carry are written as _xHHHH_, and an underscore that would start
// such a sequence is written as _x005F_, so unescapeXString restores s exactly.
func escape(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' && xstringPattern.MatchString(s[i:min(i+7, len(s))]):
			b.WriteString("_x005F_")
		case (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || r == 0xFFFE || r == 0xFFFF:
			fmt.Fprintf(&b, "_x%04X_", r)
		default:
			b.WriteRune(r)
		}
	}

	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(b.String()))
	return buf.String()
}

// unescapeXString reverses the _xHHHH_ encoding applied by escape.
func unescapeXString(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	return xstringToken.ReplaceAllStringFunc(s, func(m string) string {
		r, _ := strconv.ParseUint(m[2:6], 16, 32)
		return string(rune(r))
	})
}
