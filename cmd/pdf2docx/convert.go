package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/pdf2docx/internal/assembler"
	"github.com/dgallion1/pdf2docx/internal/convert"
	"github.com/dgallion1/pdf2docx/internal/extractor"
	"github.com/dgallion1/pdf2docx/internal/segment"
)

func runConvert(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	pageBreaks, _ := cmd.Flags().GetBool("page-breaks")
	maxParagraph, _ := cmd.Flags().GetInt("max-paragraph")
	quiet, _ := cmd.Flags().GetBool("quiet")

	// Env defaults (PDF2DOCX_PAGE_BREAKS etc.) apply when the flag is unset.
	if !cmd.Flags().Changed("page-breaks") && viper.IsSet("page_breaks") {
		pageBreaks = viper.GetBool("page_breaks")
	}
	if !cmd.Flags().Changed("max-paragraph") && viper.IsSet("max_paragraph") {
		maxParagraph = viper.GetInt("max_paragraph")
	}

	if out != "" && len(args) > 1 {
		return fmt.Errorf("--out requires a single input file")
	}

	seg := segment.Segmenter{MaxParagraphChars: maxParagraph}
	for _, path := range args {
		target := out
		if target == "" {
			target = strings.TrimSuffix(path, filepath.Ext(path)) + ".docx"
		}
		if err := convertFile(path, target, seg, pageBreaks, quiet); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", target)
	}
	return nil
}

func convertFile(path, target string, seg segment.Segmenter, pageBreaks, quiet bool) error {
	ex, err := extractor.ForFile(path)
	if err != nil {
		return err
	}
	if pdfEx, ok := ex.(*extractor.PDFExtractor); ok {
		pdfEx.FallbackPdftotext = true
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var report extractor.ProgressFunc
	if !quiet {
		report = func(page, total int) {
			fmt.Fprintf(os.Stderr, "extracting page %d of %d\n", page, total)
		}
	}

	pages, err := ex.Extract(f, filepath.Base(path), report)
	if err != nil {
		return err
	}

	doc := convert.BuildDocument(filepath.Base(path), pages, seg, pageBreaks)
	data, err := assembler.BuildDOCX(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(target, data, 0o644)
}
