package assembler

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/pdf2docx/internal/document"
)

// BuildDOCX renders a Document into .docx bytes. Each paragraph becomes one
// docx paragraph; pages flagged BreakAfter are followed by a page break.
func BuildDOCX(doc *document.Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, page := range doc.Pages {
		for _, para := range page.Paragraphs {
			w.AddParagraph().AddText(para)
		}
		if page.BreakAfter {
			w.AddParagraph().AddPageBreaks()
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
