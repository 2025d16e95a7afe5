package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidev2pptx/internal/convert"
	"github.com/pdiddy/slidev2pptx/internal/slides"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [notes]",
	Short: "Show how presenter notes map onto exported slide images",
	Long: `Pages parses the exported presenter notes and prints one row per
exported image: slide, click, image, and the notes attached to it. Warnings
(extra [click] fragments, reference mismatches) are printed to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPages,
}

func runPages(cmd *cobra.Command, args []string) error {
	notesPath, _ := cmd.Flags().GetString("notes")
	if len(args) > 0 {
		notesPath = args[0]
	}
	format, _ := cmd.Flags().GetString("format")

	res, err := convert.LoadPages(notesPath)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return formatPages(cmd.OutOrStdout(), res.Pages, format)
}

func formatPages(w io.Writer, pages []types.Page, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(pages)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}

	if len(pages) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-5s  %-5s  %-30s  %s\n", "Page", "Slide", "Click", "Image", "Notes")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, p := range pages {
		image := slides.BaseName(p.ImagePath)
		if len(image) > 30 {
			image = image[:27] + "..."
		}
		notes := strings.Join(strings.Fields(p.Notes), " ")
		if len(notes) > 40 {
			notes = notes[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-5d  %-5d  %-30s  %s\n", i+1, p.SlideIndex, p.ClickIndex, image, notes)
	}
	fmt.Fprintf(w, "\n%d pages\n", len(pages))
	return nil
}

func init() {
	pagesCmd.Flags().String("notes", types.ExportNotesFile, "path to the exported presenter notes")
	pagesCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(pagesCmd)
}
