// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Deck summarises a presentation file.
type Deck struct {
	SlideWidth  int64       `json:"slide_width" yaml:"slide_width"`
	SlideHeight int64       `json:"slide_height" yaml:"slide_height"`
	Slides      []SlideInfo `json:"slides" yaml:"slides"`
}

// SlideInfo describes one slide: its media parts and speaker notes.
type SlideInfo struct {
	Number int      `json:"number" yaml:"number"`
	Images []string `json:"images" yaml:"images"`
	Notes  string   `json:"notes" yaml:"notes"`
}

// Read opens the presentation file name and returns its slide size, slides in
// order, and the notes text of each slide (paragraphs joined by "\n").
func Read(name string) (*Deck, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}
	defer r.Close()

	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	deck := &Deck{}
	var pres struct {
		SldSz struct {
			CX int64 `xml:"cx,attr"`
			CY int64 `xml:"cy,attr"`
		} `xml:"sldSz"`
	}
	if err := unmarshalPart(fileIndex, "ppt/presentation.xml", &pres); err != nil {
		return nil, err
	}
	deck.SlideWidth = pres.SldSz.CX
	deck.SlideHeight = pres.SldSz.CY

	var nums []int
	for name := range fileIndex {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			if num := extractSlideNumber(name); num > 0 {
				nums = append(nums, num)
			}
		}
	}
	sort.Ints(nums)

	for _, num := range nums {
		info := SlideInfo{Number: num}
		var rels relationships
		relsPath := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num)
		if err := unmarshalPart(fileIndex, relsPath, &rels); err != nil {
			return nil, err
		}
		for _, rel := range rels.Rels {
			target := path.Clean(path.Join("ppt/slides", rel.Target))
			switch rel.Type {
			case relImage:
				info.Images = append(info.Images, path.Base(target))
			case relNotesSlide:
				notes, err := readNotes(fileIndex, target)
				if err != nil {
					return nil, err
				}
				info.Notes = notes
			}
		}
		deck.Slides = append(deck.Slides, info)
	}
	return deck, nil
}

type relationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type notesSlide struct {
	CSld struct {
		SpTree struct {
			SPs []notesShape `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type notesShape struct {
	NvSpPr struct {
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *struct {
		Paras []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"txBody"`
}

func readNotes(fileIndex map[string]*zip.File, name string) (string, error) {
	var notes notesSlide
	if err := unmarshalPart(fileIndex, name, &notes); err != nil {
		return "", err
	}
	for _, sp := range notes.CSld.SpTree.SPs {
		if sp.NvSpPr.NvPr.Ph == nil || sp.NvSpPr.NvPr.Ph.Type != "body" || sp.TxBody == nil {
			continue
		}
		lines := make([]string, 0, len(sp.TxBody.Paras))
		for _, para := range sp.TxBody.Paras {
			var line strings.Builder
			for _, run := range para.Runs {
				line.WriteString(unescapeXString(run.Text))
			}
			lines = append(lines, line.String())
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", nil
}

func unmarshalPart(fileIndex map[string]*zip.File, name string, v any) error {
	f := fileIndex[name]
	if f == nil {
		return fmt.Errorf("part %s not found in PPTX", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening part %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("reading part %s: %w", name, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing part %s: %w", name, err)
	}
	return nil
}

// extractSlideNumber reads N from "ppt/slides/slideN.xml".
func extractSlideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
