package extractor

import "testing"

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     Extractor
	}{
		{"report.pdf", &PDFExtractor{}},
		{"notes.TXT", &TextExtractor{}},
		{"readme.md", &MarkdownExtractor{}},
		{"readme.markdown", &MarkdownExtractor{}},
		{"page.html", &HTMLExtractor{}},
		{"page.htm", &HTMLExtractor{}},
		{"data.csv", &CSVExtractor{}},
	}
	for _, tc := range cases {
		got, err := ForFile(tc.filename)
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", tc.filename, err)
			continue
		}
		if got == nil {
			t.Errorf("ForFile(%q): nil extractor", tc.filename)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := ForFile("noextension"); err == nil {
		t.Error("expected error for missing extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("doc.pdf") {
		t.Error("expected .pdf to be supported")
	}
	if IsSupportedExtension("doc.exe") {
		t.Error("expected .exe to be unsupported")
	}
}
