package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidev2pptx/internal/pptx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "List the slides, images, and speaker notes of a PPTX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, err := pptx.Read(args[0])
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatDeck(cmd.OutOrStdout(), deck, jsonOutput)
	},
}

func formatDeck(w io.Writer, deck *pptx.Deck, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(deck)
	}

	fmt.Fprintf(w, "Canvas: %.2fin x %.2fin\n", float64(deck.SlideWidth)/pptx.EMUPerInch, float64(deck.SlideHeight)/pptx.EMUPerInch)
	for _, s := range deck.Slides {
		fmt.Fprintf(w, "\nSlide %d [%s]\n", s.Number, strings.Join(s.Images, ", "))
		if s.Notes == "" {
			fmt.Fprintln(w, "  (no notes)")
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(s.Notes, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "\n%d slides\n", len(deck.Slides))
	return nil
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(inspectCmd)
}
