package model

// NoDocumentsText is returned when a query targets a notebook that does not
// exist or holds no chunks. This is a normal outcome, not an error.
const NoDocumentsText = "No documents have been ingested into this notebook yet. Add a document and ask again."

// PreviewLength is the maximum length of a source preview in characters.
const PreviewLength = 200

// SourceMatch describes one ranked chunk that contributed to an answer.
type SourceMatch struct {
	SourceName string
	Seq        int
	Preview    string
	Score      float64
}

// Answer is the result of a notebook query: the generated text plus the
// ranked chunks its context was assembled from.
type Answer struct {
	Text    string
	Sources []SourceMatch
}

// NoDocumentsAnswer returns the fixed answer for an empty or unknown notebook.
func NoDocumentsAnswer() *Answer {
	return &Answer{
		Text:    NoDocumentsText,
		Sources: []SourceMatch{},
	}
}

// Preview truncates text to PreviewLength characters.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
