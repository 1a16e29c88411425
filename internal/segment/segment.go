package segment

import "strings"

// DefaultMaxParagraphChars is the cap on accumulated sentence text before a
// new paragraph starts.
const DefaultMaxParagraphChars = 1000

// Segmenter splits normalized page text into sentence-aware paragraphs.
type Segmenter struct {
	// MaxParagraphChars caps paragraph length. A paragraph always absorbs at
	// least one full sentence, so a single sentence longer than the cap
	// becomes its own oversized paragraph rather than being split.
	MaxParagraphChars int
}

// New returns a Segmenter with the default cap.
func New() Segmenter {
	return Segmenter{MaxParagraphChars: DefaultMaxParagraphChars}
}

// Segment splits text into an ordered sequence of non-empty trimmed
// paragraphs. Sentences end at '.', '!' or '?' followed by whitespace, with
// the terminator kept attached. Sentences accumulate into a paragraph,
// joined by single spaces, until appending the next one would push a
// non-empty paragraph past the cap.
func (s Segmenter) Segment(text string) []string {
	max := s.MaxParagraphChars
	if max <= 0 {
		max = DefaultMaxParagraphChars
	}

	sentences := splitSentences(text)

	var paragraphs []string
	var current strings.Builder

	for _, sent := range sentences {
		next := len(sent)
		if current.Len() > 0 {
			next += current.Len() + 1 // joining space
		}
		if next > max && current.Len() > 0 {
			if p := strings.TrimSpace(current.String()); p != "" {
				paragraphs = append(paragraphs, p)
			}
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
	}
	if p := strings.TrimSpace(current.String()); p != "" {
		paragraphs = append(paragraphs, p)
	}

	return paragraphs
}

// splitSentences does basic sentence splitting. A trailing remainder with no
// terminal punctuation is its own sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
