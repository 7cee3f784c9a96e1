package splitter

import (
	"fmt"
	"regexp"
	"strings"
)

// abbrevSentinel temporarily stands in for the terminal period of a known
// abbreviation so the boundary pattern does not treat it as a sentence end.
// Private-use rune, never present in real documents.
const abbrevSentinel = ""

// codeBlockPlaceholder is the format for tokens substituted for fenced code
// blocks during splitting. The token carries no sentence punctuation, so a
// code block can never be split internally.
const codeBlockPlaceholder = "__CODE_BLOCK_%d__"

// Patterns are compiled once at package init, not per document.
var (
	// Fenced code blocks, including the delimiters. (?s) lets . cross
	// newlines so multi-line blocks match.
	codeFencePattern = regexp.MustCompile("(?s)```.*?```")

	// Known abbreviations whose trailing period must not terminate a
	// sentence: personal titles, latinisms, corporate suffixes, and
	// common multi-period forms.
	abbrevPattern = regexp.MustCompile(
		`\b(?:Dr|Mr|Mrs|Ms|Prof|Sr|Jr|St|vs|etc|al|Inc|Ltd|Corp|Co|No|Fig|Vol|approx|` +
			`i\.e|e\.g|a\.m|p\.m|U\.S|U\.K|Ph\.D)\.`)

	// A sentence boundary: terminal punctuation, then whitespace (spaces,
	// tabs, or one or more newlines), then an uppercase letter starting
	// the next sentence.
	boundaryPattern = regexp.MustCompile(`[.!?]\s+[A-Z]`)
)

// Splitter segments raw document text into sentence units while protecting
// fenced code blocks and known abbreviations. Splitters are stateless and
// safe for concurrent use.
type Splitter struct {
	minSentenceLength int
}

// New creates a Splitter that discards fragments shorter than
// minSentenceLength characters.
func New(minSentenceLength int) *Splitter {
	if minSentenceLength < 0 {
		minSentenceLength = 0
	}
	return &Splitter{minSentenceLength: minSentenceLength}
}

// Split segments text into an ordered list of sentences.
//
// Fenced code blocks are extracted verbatim before splitting and restored
// afterwards, so a block containing periods is never broken across two
// sentences. Text with no sentence-terminating punctuation is returned as a
// single sentence if it meets the minimum length, otherwise the result is
// empty.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	masked, codeBlocks := extractCodeBlocks(text)
	masked = maskAbbreviations(masked)

	fragments := splitOnBoundaries(masked)

	sentences := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if len(frag) < s.minSentenceLength {
			continue
		}
		frag = strings.ReplaceAll(frag, abbrevSentinel, ".")
		frag = restoreCodeBlocks(frag, codeBlocks)
		sentences = append(sentences, frag)
	}

	return sentences
}

// extractCodeBlocks replaces every fenced code block with a unique
// placeholder token and returns the original blocks in order.
func extractCodeBlocks(text string) (string, []string) {
	var blocks []string
	masked := codeFencePattern.ReplaceAllStringFunc(text, func(block string) string {
		token := fmt.Sprintf(codeBlockPlaceholder, len(blocks))
		blocks = append(blocks, block)
		return token
	})
	return masked, blocks
}

// maskAbbreviations substitutes the periods of known abbreviations with the
// non-terminating sentinel rune.
func maskAbbreviations(text string) string {
	return abbrevPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", abbrevSentinel)
	})
}

// splitOnBoundaries cuts text immediately after each boundary match. The
// uppercase letter that anchored the match begins the next fragment.
func splitOnBoundaries(text string) []string {
	locs := boundaryPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	fragments := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		// loc[0] is the punctuation, loc[1]-1 the uppercase letter.
		fragments = append(fragments, text[start:loc[0]+1])
		start = loc[1] - 1
	}
	fragments = append(fragments, text[start:])
	return fragments
}

// restoreCodeBlocks swaps placeholder tokens back to their original text.
func restoreCodeBlocks(fragment string, blocks []string) string {
	if len(blocks) == 0 || !strings.Contains(fragment, "__CODE_BLOCK_") {
		return fragment
	}
	for i, block := range blocks {
		token := fmt.Sprintf(codeBlockPlaceholder, i)
		fragment = strings.ReplaceAll(fragment, token, block)
	}
	return fragment
}
