package extractor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFExtractor handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (p *PDFExtractor) Extract(r io.Reader, filename string, report ProgressFunc) ([]string, error) {
	// pdfcpu and ledongthuc/pdf both want a seekable file, so spool to temp.
	tmp, err := os.CreateTemp("", "pdf2docx-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	// Page count up front: validates the file and lets progress read
	// "page n of total" from the first page onward.
	total, err := api.PageCountFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages, err := extractPDFPages(tmpPath, total, report)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath, report)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pages, nil
}

func extractPDFPages(path string, total int, report ProgressFunc) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := make([]string, 0, total)
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if report != nil {
			report(i, total)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Keep the page slot so page numbering stays aligned.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, NormalizePage(text))
	}
	return pages, nil
}

func extractPdftotext(path string, report ProgressFunc) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	// pdftotext separates pages with form feeds and appends a trailing one.
	raw := strings.Split(string(out), "\f")
	if n := len(raw); n > 1 && strings.TrimSpace(raw[n-1]) == "" {
		raw = raw[:n-1]
	}

	pages := make([]string, 0, len(raw))
	for i, page := range raw {
		if report != nil {
			report(i+1, len(raw))
		}
		pages = append(pages, NormalizePage(page))
	}
	return pages, nil
}
