// Package segment splits document text into the units the two extraction
// strategies consume: sentences for the lexical path and overlapping word
// chunks for the retrieval path.
package segment

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/intel-engine/internal/model"
)

const (
	minSentenceChars = 15
	maxSentenceChars = 500
	minSentenceWords = 3

	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the window overlap in words.
	DefaultChunkOverlap = 100

	minChunkChars = 50
)

// Sentences splits text into sentences, protecting decimal numbers such as
// "62.9%" from being split mid-number. Sentences shorter than 15 chars,
// longer than 500 chars, or with fewer than 3 words are dropped.
func Sentences(text string) []string {
	text = norm.NFC.String(text)

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// A period between two digits is a decimal point, not a boundary.
		if r == '.' && i > 0 && i+1 < len(runes) && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		// Swallow runs of terminal punctuation ("?!", "...").
		end := i + 1
		for end < len(runes) && (runes[end] == '.' || runes[end] == '!' || runes[end] == '?') {
			end++
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	kept := sentences[:0]
	for _, s := range sentences {
		if n := utf8.RuneCountInString(s); n < minSentenceChars || n > maxSentenceChars {
			continue
		}
		if len(strings.Fields(s)) < minSentenceWords {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// ChunkOptions control chunk-mode segmentation.
type ChunkOptions struct {
	ChunkSize int // window size in words
	Overlap   int // overlap between consecutive windows in words
}

func (o ChunkOptions) withDefaults() ChunkOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Overlap < 0 || o.Overlap >= o.ChunkSize {
		o.Overlap = DefaultChunkOverlap
		if o.Overlap >= o.ChunkSize {
			o.Overlap = o.ChunkSize / 5
		}
	}
	return o
}

// Chunks splits a document body into overlapping word windows for indexing.
// Every returned chunk is at most model.MaxChunkChars characters (truncated
// at a word boundary) and at least 50 characters; if nothing survives, the
// first 1800 characters of the raw text are returned as a single chunk.
// Deterministic for identical input.
func Chunks(doc model.SourceDocument, opts ChunkOptions) []model.TextChunk {
	opts = opts.withDefaults()
	body := norm.NFC.String(doc.Body)
	words := strings.Fields(body)

	var chunks []model.TextChunk
	step := opts.ChunkSize - opts.Overlap
	for start := 0; start < len(words); start += step {
		end := start + opts.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		text := strings.Join(words[start:end], " ")
		text = truncateAtWordBoundary(text, model.MaxChunkChars)
		if utf8.RuneCountInString(text) >= minChunkChars {
			chunks = append(chunks, model.TextChunk{Text: text, SourceTitle: doc.Title})
		}
		if end == len(words) {
			break
		}
	}

	if len(chunks) == 0 {
		raw := strings.TrimSpace(body)
		if raw == "" {
			return nil
		}
		if runes := []rune(raw); len(runes) > model.MaxChunkChars {
			raw = string(runes[:model.MaxChunkChars])
		}
		chunks = append(chunks, model.TextChunk{Text: raw, SourceTitle: doc.Title})
	}
	return chunks
}

// truncateAtWordBoundary cuts s to at most max runes without splitting the
// final word, so multi-byte text is never left with a torn rune.
func truncateAtWordBoundary(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
