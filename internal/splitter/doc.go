// Package splitter segments raw document text into sentence units for the
// semantic chunking pipeline.
//
// The splitter protects two kinds of spans that must never be broken by
// sentence detection:
//
//   - Fenced code blocks (triple backticks) are lifted out before splitting
//     and restored verbatim afterwards, so embedded periods in code cannot
//     produce spurious sentence boundaries.
//   - Known abbreviations (Dr., e.g., Inc., Ph.D., ...) have their periods
//     masked with a sentinel rune for the duration of the split.
//
// # Basic Usage
//
//	s := splitter.New(10) // drop fragments shorter than 10 characters
//	sentences := s.Split(document)
//	for i, sent := range sentences {
//	    fmt.Printf("%d: %s\n", i, sent)
//	}
//
// # Boundary Detection
//
// A sentence boundary is terminal punctuation ([.!?]) followed by
// whitespace (including newlines) and an uppercase letter. Text with no
// such boundary is returned whole as a single sentence when it meets the
// minimum length.
//
// All patterns are compiled once at package initialization; Split performs
// no per-call compilation and is safe for concurrent use.
package splitter
