package docindex

import (
	"testing"

	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/interp"
	"github.com/delvergo/delver/pdfsrc"
	"github.com/stretchr/testify/require"
)

func textContent(id string, page int, size float32, fontName, text string, x0, y0, x1, y1 float32) interp.PageContent {
	return interp.PageContent{Text: &interp.TextElement{
		ID: id, Page: page, FontSize: size, FontName: fontName, Text: text,
		BBox: geometry.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
	}}
}

func sampleIndex() *PdfIndex {
	byPage := map[int][]interp.PageContent{
		1: {
			textContent("t1", 1, 24, "Helvetica-Bold", "Chapter One", 0, 0, 100, 20),
			textContent("t2", 1, 12, "Times-Roman", "body text one", 0, 30, 100, 42),
			textContent("t3", 1, 12, "Times-Roman", "body text two", 0, 50, 100, 62),
		},
		2: {
			textContent("t4", 2, 24, "Helvetica-Bold", "Chapter Two", 0, 0, 100, 20),
			textContent("t5", 2, 12, "Times-Roman", "more body text", 0, 30, 100, 42),
		},
	}
	return Build(byPage)
}

func TestBuildSequentialOrderAndByPage(t *testing.T) {
	idx := sampleIndex()
	require.Equal(t, 5, idx.Len())
	require.Len(t, idx.ElementsOnPage(1), 3)
	require.Len(t, idx.ElementsOnPage(2), 2)
	require.Equal(t, "t1", idx.AllOrdered()[0].ID())
}

func TestElementsByFontSize(t *testing.T) {
	idx := sampleIndex()
	got := idx.ElementsByFontSize(20, 30)
	require.Len(t, got, 2)
	for _, c := range got {
		require.Equal(t, float32(24), c.Text.FontSize)
	}
}

func TestElementsInRegion(t *testing.T) {
	idx := sampleIndex()
	got := idx.ElementsInRegion(geometry.Rect{X0: 0, Y0: 0, X1: 100, Y1: 25})
	require.Len(t, got, 2) // t1 and t4, one per page
}

func TestFindTextMatches(t *testing.T) {
	idx := sampleIndex()
	matches := idx.FindTextMatches("Chapter One", 0.8, 0)
	require.NotEmpty(t, matches)
	require.Equal(t, "t1", matches[0].Element.ID)
}

func TestFontFrequencySortedByCountThenName(t *testing.T) {
	idx := sampleIndex()
	freq := idx.FontFrequency()
	require.Equal(t, "Times-Roman", freq[0].Name)
	require.Equal(t, 3, freq[0].Count)
}

func TestGetElementsBetweenMarkers(t *testing.T) {
	idx := sampleIndex()
	got := idx.GetElementsBetweenMarkers("t2", strPtr("t4"))
	require.Len(t, got, 2)
	require.Equal(t, "t2", got[0].ID())
	require.Equal(t, "t3", got[1].ID())
}

func TestGetElementsAfter(t *testing.T) {
	idx := sampleIndex()
	got := idx.GetElementsAfter("t4")
	require.Len(t, got, 2)
}

func TestUpdateReferenceCountsBumpsNearbyElement(t *testing.T) {
	idx := sampleIndex()
	y := float32(5)
	dests := map[string]pdfsrc.Destination{
		"d1": {Page: 1, Y: &y},
	}
	idx.UpdateReferenceCounts(dests)
	snap := idx.Snapshot()
	require.Equal(t, 1, snap[0].Text.ReferenceCount)
}

func TestFontSizeStatsEmptyDefaultsToTwelve(t *testing.T) {
	idx := Build(map[int][]interp.PageContent{})
	stats := idx.FontSizeStats()
	require.Equal(t, 12.0, stats.Mean)
}

func TestIdentifyHeadingLevels(t *testing.T) {
	idx := sampleIndex()
	styles := idx.IdentifyHeadingLevels(3)
	for _, s := range styles {
		require.NotEqual(t, "Times-Roman", s.Name)
	}
}

func strPtr(s string) *string { return &s }
