package layout

import (
	"testing"

	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/interp"
	"github.com/stretchr/testify/require"
)

func text(id string, x0, y0, x1, y1 float32) *interp.TextElement {
	return &interp.TextElement{ID: id, Page: 1, Text: id, BBox: geometry.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func TestGroupPageMergesSameLine(t *testing.T) {
	els := []*interp.TextElement{
		text("a", 0, 10, 20, 20),
		text("b", 25, 11, 45, 21),
	}
	blocks := groupPage(1, els, 3, 10)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 1)
	require.Len(t, blocks[0].Lines[0].Elements, 2)
	require.Equal(t, "a b", blocks[0].Lines[0].Text())
}

func TestGroupPageSplitsDistantLines(t *testing.T) {
	els := []*interp.TextElement{
		text("a", 0, 10, 20, 20),
		text("b", 0, 100, 20, 110),
	}
	blocks := groupPage(1, els, 3, 10)
	require.Len(t, blocks, 2)
	require.Len(t, blocks[0].Lines, 1)
	require.Len(t, blocks[1].Lines, 1)
}

func TestGroupPageJoinsLinesIntoBlock(t *testing.T) {
	els := []*interp.TextElement{
		text("a", 0, 0, 20, 10),
		text("b", 0, 12, 20, 22), // gap of 2 < blockJoin 10
	}
	blocks := groupPage(1, els, 1, 10)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 2)
}

func TestGroupPagesKeyedByPage(t *testing.T) {
	byPage := map[int][]*interp.TextElement{
		1: {text("a", 0, 0, 10, 10)},
		2: {text("b", 0, 0, 10, 10)},
	}
	out := GroupPages(byPage, 3, 10)
	require.Len(t, out, 2)
	require.Len(t, out[1], 1)
	require.Len(t, out[2], 1)
}
