package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles CSV files. Rows are labeled with their header and
// grouped into fixed-size batches; each batch becomes one page.
type CSVExtractor struct{}

const csvRowsPerPage = 20

func (p *CSVExtractor) Extract(r io.Reader, filename string, report ProgressFunc) ([]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var pages []string
	for i := 0; i < len(dataRows); i += csvRowsPerPage {
		end := i + csvRowsPerPage
		if end > len(dataRows) {
			end = len(dataRows)
		}

		var text strings.Builder
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString(".\n")
		}
		if page := NormalizePage(text.String()); page != "" {
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
