package extractor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ProgressFunc is invoked once per page as extraction proceeds, in page
// order. total is known from the first call onward so callers can display
// "page n of total". Purely informational.
type ProgressFunc func(page, total int)

// Extractor converts raw document bytes into ordered per-page normalized
// text: control characters removed, whitespace runs collapsed to single
// spaces, trimmed.
type Extractor interface {
	Extract(r io.Reader, filename string, report ProgressFunc) ([]string, error)
}

// SupportedExtensions lists file extensions this service can convert.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".csv":      true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
