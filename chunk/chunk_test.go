package chunk

import (
	"errors"
	"testing"

	"github.com/delvergo/delver/interp"
	"github.com/stretchr/testify/require"
)

func el(text string) *interp.TextElement { return &interp.TextElement{Text: text} }

func TestElementsCoversEveryElement(t *testing.T) {
	elements := []*interp.TextElement{el("aaaa"), el("bbbb"), el("cccc"), el("dddd")}
	chunks, err := Elements(elements, 9, 0, Chars, nil)
	require.NoError(t, err)

	seen := make(map[*interp.TextElement]bool)
	for _, c := range chunks {
		for _, e := range c {
			seen[e] = true
		}
	}
	for _, e := range elements {
		require.True(t, seen[e], "element %q missing from every chunk", e.Text)
	}
}

func TestElementsAlwaysEmitsAtLeastOnePerChunk(t *testing.T) {
	elements := []*interp.TextElement{el("this-single-element-exceeds-budget")}
	chunks, err := Elements(elements, 1, 0, Chars, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Len(t, chunks[0], 1)
}

func TestElementsOverlapRepeatsTailElements(t *testing.T) {
	elements := []*interp.TextElement{el("aaaa"), el("bbbb"), el("cccc"), el("dddd")}
	chunks, err := Elements(elements, 8, 4, Chars, nil)
	require.NoError(t, err)
	require.True(t, len(chunks) >= 2)
	// The tail of one chunk should reappear at the head of the next.
	require.Equal(t, chunks[0][len(chunks[0])-1], chunks[1][0])
}

type stubTokenizer struct{}

func (stubTokenizer) Encode(text string) ([]int, error) {
	return make([]int, len(text)/2+1), nil
}

func TestElementsTokenUnit(t *testing.T) {
	elements := []*interp.TextElement{el("aaaa"), el("bbbb")}
	chunks, err := Elements(elements, 100, 0, Tokens, stubTokenizer{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

type erroringTokenizer struct{}

func (erroringTokenizer) Encode(text string) ([]int, error) {
	return nil, errors.New("boom")
}

func TestElementsTokenizerErrorPropagates(t *testing.T) {
	elements := []*interp.TextElement{el("aaaa")}
	_, err := Elements(elements, 10, 0, Tokens, erroringTokenizer{})
	require.Error(t, err)
}
