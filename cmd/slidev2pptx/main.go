// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the slidev2pptx CLI. The root command
// runs the Slidev export of a deck and converts the result to PPTX; the
// subcommands work on an export that already exists.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidev2pptx/internal/convert"
	"github.com/pdiddy/slidev2pptx/internal/export"
	"github.com/pdiddy/slidev2pptx/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the slidev2pptx CLI.
var rootCmd = &cobra.Command{
	Use:   "slidev2pptx",
	Short: "Convert a Slidev slide deck to a PPTX slide deck",
	Long: `slidev2pptx runs the Slidev export of a deck (one PNG per click plus a
markdown file of presenter notes) and builds a PPTX with one slide per image.
Presenter notes are split on [click] markers and attached to the matching
click of each slide as speaker notes.

Settings can also come from slidev2pptx.yaml, SLIDEV2PPTX_* environment
variables, or a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine.
		_ = godotenv.Load()
		setupLogging(viper.GetBool("verbose"))
		return nil
	},
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	runner, err := export.NewRunner(types.RunnerName(viper.GetString("runner")))
	if err != nil {
		return err
	}

	exp := types.ExportConfig{
		DeckDir: viper.GetString("input"),
		Scale:   viper.GetInt("scale"),
		Runner:  types.RunnerName(runner.Name()),
	}
	build := types.BuildConfig{
		OutputPath: viper.GetString("output"),
		Strict:     viper.GetBool("strict"),
	}

	_, err = convert.Run(cmd.Context(), runner, exp, build, cmd.OutOrStdout())
	return err
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./slidev2pptx.yaml or ~/.config/slidev2pptx/slidev2pptx.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("strict", false, "treat notes warnings (extra [click] fragments, reference mismatches) as errors")
	rootCmd.PersistentFlags().StringP("output", "o", types.DefaultOutputPath, "path to save the pptx")

	rootCmd.Flags().StringP("input", "i", "./", "path to the Slidev repository")
	rootCmd.Flags().IntP("scale", "s", types.DefaultScale, "scale of Slidev image export")
	rootCmd.Flags().String("runner", string(types.RunnerAuto), "package manager for the export script: auto, pnpm, or npm")

	for _, name := range []string{"verbose", "strict", "output"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	for _, name := range []string{"input", "scale", "runner"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("slidev2pptx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "slidev2pptx"))
		}
	}

	viper.SetEnvPrefix("SLIDEV2PPTX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
