package extractor

import (
	"io"
	"strings"
)

// TextExtractor handles plain text files. Form feeds mark page boundaries;
// a file without them is a single page.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string, report ProgressFunc) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, raw := range strings.Split(string(src), "\f") {
		if page := NormalizePage(raw); page != "" {
			pages = append(pages, page)
		}
	}

	for i := range pages {
		if report != nil {
			report(i+1, len(pages))
		}
	}
	return pages, nil
}
