package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidev2pptx/internal/convert"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a PPTX from an existing Slidev export",
	Long: `Build skips the Slidev export and converts artifacts that already exist:
the presenter-notes markdown (slides-export.md) and the directory of per-click
PNGs (slides-export/). Image paths in the notes are resolved against the
parent directory of --images.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	notes, _ := cmd.Flags().GetString("notes")
	images, _ := cmd.Flags().GetString("images")

	cfg := types.BuildConfig{
		NotesPath:  notes,
		ImageDir:   images,
		OutputPath: viper.GetString("output"),
		Strict:     viper.GetBool("strict"),
	}
	_, err := convert.BuildPPTX(cfg, cmd.OutOrStdout())
	return err
}

func init() {
	buildCmd.Flags().String("notes", types.ExportNotesFile, "path to the exported presenter notes")
	buildCmd.Flags().String("images", types.ExportImageDir, "directory of exported slide images")

	rootCmd.AddCommand(buildCmd)
}
