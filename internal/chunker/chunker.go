// Package chunker provides recursive character text splitting.
//
// Text is cut at the largest structural boundary that keeps each piece
// within the size limit: paragraphs first, then lines, sentences,
// words, and as a last resort single characters. Consecutive chunks do
// not overlap. Splitting is deterministic and performs no I/O.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// DefaultMaxSize is the default maximum chunk length in bytes.
const DefaultMaxSize = 250

// defaultSeparators is ordered from coarsest to finest boundary.
// The empty separator means a hard cut between characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts text into bounded chunks.
type Splitter struct {
	maxSize    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxSize sets the maximum chunk length in bytes.
func WithMaxSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxSize:    DefaultMaxSize,
		separators: defaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxSize returns the configured maximum chunk length.
func (s *Splitter) MaxSize() int {
	return s.maxSize
}

// Split cuts text into chunks of at most MaxSize bytes.
// Empty or whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	pieces := s.split(text, s.separators)
	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// SplitNotes chunks every note's title+body, stamping the source note's
// metadata onto each chunk it produces.
func (s *Splitter) SplitNotes(notes []domain.Note) []domain.Chunk {
	var chunks []domain.Chunk
	for _, note := range notes {
		meta := domain.ChunkMetadata{
			NoteID:  note.ID,
			Title:   note.Title,
			OwnerID: note.OwnerID,
		}
		for _, content := range s.Split(note.Text()) {
			chunks = append(chunks, domain.Chunk{
				Content:  content,
				Metadata: meta,
			})
		}
	}
	return chunks
}

// split recursively cuts text using the first separator present in it,
// descending to finer separators for pieces still over the limit.
func (s *Splitter) split(text string, separators []string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.maxSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, separators)
	if sep == "" {
		return s.hardCut(text)
	}

	var out []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, piece := range splitKeep(text, sep) {
		if len(piece) > s.maxSize {
			flush()
			out = append(out, s.split(piece, rest)...)
			continue
		}
		if current.Len()+len(piece) > s.maxSize {
			flush()
		}
		current.WriteString(piece)
	}
	flush()
	return out
}

// hardCut slices text into maxSize pieces with no regard for word or
// sentence boundaries. Cuts land on rune boundaries so multi-byte text
// never produces invalid UTF-8 chunks.
func (s *Splitter) hardCut(text string) []string {
	var out []string
	for len(text) > s.maxSize {
		cut := s.maxSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// A single rune wider than the limit; emit it whole.
			_, cut = utf8.DecodeRuneInString(text)
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// pickSeparator returns the coarsest separator occurring in text along
// with the finer separators to recurse with.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeep splits text on sep, keeping the separator attached to the
// end of the piece that precedes it, so no characters are lost.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
