package chunker

import (
	"regexp"
	"strings"

	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

var (
	// paragraphBreak matches two or more consecutive newline-equivalent
	// whitespace runs.
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)

	// sentenceBreak matches a sentence terminator followed by two or more
	// spaces. This is a boundary heuristic, not a sentence parser.
	sentenceBreak = regexp.MustCompile(`[.!?][ \t]{2,}`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Split divides document text into chunks of roughly targetSize characters.
// Segments are accumulated greedily along paragraph and sentence boundaries;
// a single segment longer than targetSize is kept whole, so targetSize is a
// soft cap. Sequence indices are contiguous starting at 0. A non-positive
// targetSize falls back to types.DefaultChunkSize.
func Split(text, sourceName string, targetSize int) []*model.Chunk {
	if targetSize <= 0 {
		targetSize = types.DefaultChunkSize
	}

	var chunks []*model.Chunk
	var buf strings.Builder

	flush := func() {
		chunkText := strings.TrimSpace(buf.String())
		buf.Reset()
		if chunkText == "" {
			return
		}
		seq := len(chunks)
		chunks = append(chunks, &model.Chunk{
			ID:         model.NewChunkID(sourceName, seq),
			SourceName: sourceName,
			Seq:        seq,
			Text:       chunkText,
			CharCount:  len(chunkText),
		})
	}

	for _, seg := range segments(text) {
		if buf.Len() > 0 && buf.Len()+len(seg) > targetSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(seg)
		if buf.Len() > targetSize {
			flush()
		}
	}
	flush()

	return chunks
}

// segments splits raw text on paragraph and sentence boundaries and
// normalizes whitespace within each segment. Empty segments are dropped.
func segments(text string) []string {
	var segs []string
	for _, para := range paragraphBreak.Split(text, -1) {
		for _, raw := range splitSentenceRuns(para) {
			seg := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
			if seg == "" {
				continue
			}
			segs = append(segs, seg)
		}
	}
	return segs
}

// splitSentenceRuns cuts text after each sentence terminator that is followed
// by two or more spaces, keeping the terminator with the preceding segment.
func splitSentenceRuns(text string) []string {
	locs := sentenceBreak.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var parts []string
	prev := 0
	for _, loc := range locs {
		// loc[0] is the terminator; cut just after it
		parts = append(parts, text[prev:loc[0]+1])
		prev = loc[1]
	}
	parts = append(parts, text[prev:])
	return parts
}
