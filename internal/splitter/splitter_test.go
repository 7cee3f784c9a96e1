package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New(10)
	assert.NotNil(t, s)
}

func TestNew_NegativeMinLength(t *testing.T) {
	s := New(-5)
	sentences := s.Split("Short one. And another here.")
	assert.Len(t, sentences, 2)
}

func TestSplit_SimpleSentences(t *testing.T) {
	s := New(0)
	sentences := s.Split("The quick brown fox jumps. It lands on the lazy dog. Both are fine.")

	require.Len(t, sentences, 3)
	assert.Equal(t, "The quick brown fox jumps.", sentences[0])
	assert.Equal(t, "It lands on the lazy dog.", sentences[1])
	assert.Equal(t, "Both are fine.", sentences[2])
}

func TestSplit_AbbreviationPreserved(t *testing.T) {
	s := New(0)
	sentences := s.Split("Dr. Smith went home. He was tired.")

	require.Len(t, sentences, 2)
	assert.Contains(t, sentences[0], "Dr.")
	assert.Equal(t, "Dr. Smith went home.", sentences[0])
	assert.Equal(t, "He was tired.", sentences[1])
}

func TestSplit_LatinAbbreviations(t *testing.T) {
	s := New(0)
	sentences := s.Split("Use vectors, e.g. dense embeddings, for recall. Sparse terms help precision.")

	require.Len(t, sentences, 2)
	assert.Contains(t, sentences[0], "e.g.")
}

func TestSplit_CodeBlockNeverSplit(t *testing.T) {
	code := "```go\nfmt.Println(\"a.b.c\")\nx := compute()\n```"
	text := "Here is an example. The snippet below shows usage:\n" + code + "\nThat was the sample. More prose follows."

	s := New(0)
	sentences := s.Split(text)

	// The code block must survive intact inside exactly one sentence.
	found := 0
	for _, sent := range sentences {
		if strings.Contains(sent, code) {
			found++
		}
		assert.NotContains(t, sent, "__CODE_BLOCK_")
	}
	assert.Equal(t, 1, found, "code block should appear verbatim in one sentence")
}

func TestSplit_MultipleCodeBlocks(t *testing.T) {
	text := "First block:\n```\na.b\n```\nSecond block follows. Here it is:\n```\nc.d\n```\nDone now."

	s := New(0)
	sentences := s.Split(text)

	joined := strings.Join(sentences, " ")
	assert.Contains(t, joined, "```\na.b\n```")
	assert.Contains(t, joined, "```\nc.d\n```")
	assert.NotContains(t, joined, "__CODE_BLOCK_")
}

func TestSplit_NoTerminalPunctuation(t *testing.T) {
	s := New(0)
	sentences := s.Split("a fragment with no terminal punctuation at all")

	require.Len(t, sentences, 1)
	assert.Equal(t, "a fragment with no terminal punctuation at all", sentences[0])
}

func TestSplit_NoTerminalPunctuationTooShort(t *testing.T) {
	s := New(100)
	sentences := s.Split("short fragment")
	assert.Empty(t, sentences)
}

func TestSplit_MinLengthFilter(t *testing.T) {
	s := New(15)
	sentences := s.Split("Ok. This sentence is long enough to keep. No. Another sufficiently long sentence.")

	require.Len(t, sentences, 2)
	for _, sent := range sentences {
		assert.GreaterOrEqual(t, len(sent), 15)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New(0)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplit_NewlineBoundaries(t *testing.T) {
	s := New(0)
	sentences := s.Split("First paragraph ends here.\n\nSecond paragraph starts now.")

	require.Len(t, sentences, 2)
	assert.Equal(t, "First paragraph ends here.", sentences[0])
	assert.Equal(t, "Second paragraph starts now.", sentences[1])
}

func TestSplit_QuestionAndExclamation(t *testing.T) {
	s := New(0)
	sentences := s.Split("Is this a question? Yes it is! And a statement.")

	require.Len(t, sentences, 3)
	assert.Equal(t, "Is this a question?", sentences[0])
	assert.Equal(t, "Yes it is!", sentences[1])
}

func TestSplit_TrimsWhitespace(t *testing.T) {
	s := New(0)
	sentences := s.Split("   Leading spaces here.   Trailing follow.   ")

	require.Len(t, sentences, 2)
	assert.Equal(t, "Leading spaces here.", sentences[0])
	assert.Equal(t, "Trailing follow.", sentences[1])
}
