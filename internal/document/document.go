package document

// Document is the assembled output of one conversion: ordered pages of
// paragraph text, built once per request and serialized immediately.
type Document struct {
	Title string // Output title (source file basename)
	Pages []Page
}

// Page holds one source page's paragraphs.
type Page struct {
	Number     int      // 1-based source page number
	Paragraphs []string // Non-empty trimmed paragraphs in reading order
	BreakAfter bool     // Insert a page break after this page; never set on the last page
}
