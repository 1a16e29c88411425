// Package main is the entry point for the pdf2docx CLI, a one-shot
// counterpart to the HTTP server: each input file is converted to a
// paragraph-structured .docx next to it.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/pdf2docx/internal/segment"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts its file arguments directly; there are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "pdf2docx [files...]",
	Short: "Convert documents to paragraph-structured .docx",
	Long: `pdf2docx extracts per-page text from PDF (and text, Markdown, HTML, CSV)
files, segments each page into sentence-aware paragraphs, and writes a .docx.

Page text is normalized before segmentation: control characters removed and
whitespace collapsed. Paragraphs never split a sentence; a paragraph grows
until the next sentence would push it past the length cap.`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2docx.yaml or ~/.config/pdf2docx/config.yaml)")

	rootCmd.Flags().StringP("out", "o", "", "output path (single input only; default: alongside the input)")
	rootCmd.Flags().Bool("page-breaks", false, "insert a page break between source pages")
	rootCmd.Flags().Int("max-paragraph", segment.DefaultMaxParagraphChars, "paragraph length cap in characters")
	rootCmd.Flags().Bool("quiet", false, "suppress per-page progress output")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2docx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2docx"))
		}
	}

	viper.SetEnvPrefix("PDF2DOCX")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
