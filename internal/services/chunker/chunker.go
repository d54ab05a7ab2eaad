package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
)

// Splitter breaks document text into overlapping chunks sized for
// embedding. It prefers natural breakpoints (paragraph, line, sentence,
// word) and falls back to a hard character cut only when a span of text
// has no separator at all.
type Splitter struct {
	chunkSize int
	overlap   int
	logger    arbor.ILogger
}

// separators ordered from coarsest to finest
var separators = []string{"\n\n", "\n", ". ", " "}

// NewSplitter creates a splitter with the given chunk size and overlap.
// Invalid values fall back to defaults (1000/200); overlap is clamped
// below chunk size.
func NewSplitter(chunkSize, overlap int, logger arbor.ILogger) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 200
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// Split divides text into chunks of at most the configured size, with
// consecutive chunks sharing the configured overlap. Whitespace-only
// input yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		// Chunk sizes are byte counts; the window edge must not land
		// inside a multi-byte rune.
		end = runeBoundary(text, end)
		if end <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}

		cut := s.findBreakpoint(text, start, end)

		chunk := strings.TrimSpace(text[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := runeBoundary(text, cut-s.overlap)
		if next <= start {
			// Overlap would stall the walk; advance past the cut instead.
			next = cut
		}
		start = next
	}

	if s.logger != nil {
		s.logger.Debug().
			Int("text_length", len(text)).
			Int("chunk_count", len(chunks)).
			Int("chunk_size", s.chunkSize).
			Int("overlap", s.overlap).
			Msg("Split text into chunks")
	}

	return chunks
}

// findBreakpoint locates the best cut position in text[start:end],
// scanning separators from coarsest to finest. Returns end when no
// separator occurs in the window.
func (s *Splitter) findBreakpoint(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}

// runeBoundary snaps i back to the nearest rune start at or before it.
func runeBoundary(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
