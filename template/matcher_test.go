package template

import (
	"testing"

	"github.com/delvergo/delver/config"
	"github.com/delvergo/delver/docindex"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/interp"
	"github.com/delvergo/delver/layout"
	"github.com/stretchr/testify/require"
)

func textEl(id string, page int, y0 float32, text string) interp.PageContent {
	return interp.PageContent{Text: &interp.TextElement{
		ID: id, Page: page, FontSize: 12, FontName: "Times-Roman", Text: text,
		BBox: geometry.Rect{X0: 0, Y0: y0, X1: 100, Y1: y0 + 10},
	}}
}

func imageEl(id string, page int, y0 float32) interp.PageContent {
	return interp.PageContent{Image: &interp.ImageElement{
		ID: id, Page: page, BBox: geometry.Rect{X0: 0, Y0: y0, X1: 100, Y1: y0 + 10},
	}}
}

// buildMatcher assembles a PdfIndex and its layout blocks from a flat
// page-1 content list, the way delver.Process would, and returns a
// Matcher ready to align a template against it.
func buildMatcher(t *testing.T, content []interp.PageContent) *Matcher {
	t.Helper()
	byPage := map[int][]interp.PageContent{1: content}

	var textEls []*interp.TextElement
	for _, c := range content {
		if c.Text != nil {
			textEls = append(textEls, c.Text)
		}
	}
	blocks := layout.GroupPages(map[int][]*interp.TextElement{1: textEls}, 3, 1000)

	idx := docindex.Build(byPage)
	cfg := config.New()
	return NewMatcher(idx, blocks, cfg, nil)
}

func ids(matched []interp.PageContent) []string {
	out := make([]string, len(matched))
	for i, c := range matched {
		out[i] = c.ID()
	}
	return out
}

func TestMatchSectionWithEndMarker(t *testing.T) {
	// S2: one page, a section heading, two body paragraphs, an image,
	// and a marker that ends the section.
	content := []interp.PageContent{
		textEl("heading", 1, 0, "Introduction Heading"),
		textEl("para1", 1, 20, "para one text"),
		imageEl("image", 1, 40),
		textEl("para2", 1, 60, "para two text"),
		textEl("marker", 1, 80, "Next Section Starts Here"),
	}
	m := buildMatcher(t, content)

	root := &Root{Elements: []*Element{
		{Name: "Section", Attributes: map[string]Value{
			"match":     StringValue("Introduction Heading"),
			"end_match": StringValue("Next Section Starts Here"),
		}},
	}}

	matches := m.Match(root)
	require.Len(t, matches, 1)
	sec := matches[0]
	require.Equal(t, MatchedSection, sec.Matched.Kind)
	require.Equal(t, []string{"heading", "para1", "image", "para2"}, ids(sec.Matched.Content))
}

func TestMatchNestedSections(t *testing.T) {
	// S3: Chapter 1 / Section 1.1 / Section 1.2 / Chapter 2, nested under
	// Chapter 1 with end markers.
	content := []interp.PageContent{
		textEl("ch1", 1, 0, "Chapter 1"),
		textEl("s11", 1, 20, "Section 1.1"),
		textEl("body11", 1, 40, "body of 1.1"),
		textEl("s12", 1, 60, "Section 1.2"),
		textEl("body12", 1, 80, "body of 1.2"),
		textEl("ch2", 1, 100, "Chapter 2"),
	}
	m := buildMatcher(t, content)

	chapter1 := &Element{
		Name: "Section",
		Attributes: map[string]Value{
			"match":     StringValue("Chapter 1"),
			"end_match": StringValue("Chapter 2"),
		},
		Children: []*Element{
			{Name: "Section", Attributes: map[string]Value{
				"match":     StringValue("Section 1.1"),
				"end_match": StringValue("Section 1.2"),
			}},
			{Name: "Section", Attributes: map[string]Value{
				"match": StringValue("Section 1.2"),
			}},
		},
	}
	root := &Root{Elements: []*Element{chapter1}}

	matches := m.Match(root)
	require.Len(t, matches, 1)
	top := matches[0]
	require.Equal(t, []string{"ch1", "s11", "body11", "s12", "body12"}, ids(top.Matched.Content))
	require.Len(t, top.Children, 2)

	child1 := top.Children[0]
	child2 := top.Children[1]
	require.Equal(t, []string{"s11", "body11"}, ids(child1.Matched.Content))
	require.Equal(t, []string{"s12", "body12"}, ids(child2.Matched.Content))
}

func TestMatchSectionMetadataPropagatesToChunks(t *testing.T) {
	// S4: a Section with as="MD&A" containing a single TextChunk; every
	// resulting chunk's metadata must carry section/section_name.
	content := []interp.PageContent{
		textEl("heading", 1, 0, "MD and A Heading"),
		textEl("body1", 1, 20, "body text one"),
		textEl("body2", 1, 40, "body text two"),
	}
	m := buildMatcher(t, content)

	root := &Root{Elements: []*Element{
		{
			Name: "Section",
			Attributes: map[string]Value{
				"match": StringValue("MD and A Heading"),
				"as":    StringValue("MD&A"),
			},
			Children: []*Element{
				{Name: "TextChunk", Attributes: map[string]Value{
					"chunkSize": NumberValue(500),
					"overlap":   NumberValue(150),
				}},
			},
		},
	}}

	matches := m.Match(root)
	require.Len(t, matches, 1)
	section := matches[0]
	require.Equal(t, StringValue("MD&A"), section.Metadata["section"])
	require.Equal(t, StringValue("MDandA"), section.Metadata["section_name"])

	require.NotEmpty(t, section.Children)
	for _, chunkMatch := range section.Children {
		require.Equal(t, StringValue("MD&A"), chunkMatch.Metadata["section"])
		require.Equal(t, StringValue("MDandA"), chunkMatch.Metadata["section_name"])
		require.Equal(t, MatchedChunk, chunkMatch.Matched.Kind)
	}
}

func TestMatchRootLevelChunkSectionChunk(t *testing.T) {
	// S5: eight ordered elements split into three groups of {3, 3, 2} by
	// three top-level template nodes: TextChunk, Section, TextChunk.
	content := []interp.PageContent{
		textEl("a1", 1, 0, "alpha one"),
		textEl("a2", 1, 20, "alpha two"),
		textEl("a3", 1, 40, "alpha three"),
		textEl("heading", 1, 60, "Body Section"),
		textEl("b1", 1, 80, "bravo one"),
		textEl("b2", 1, 100, "bravo two"),
		textEl("c1", 1, 120, "charlie one"),
		textEl("c2", 1, 140, "charlie two"),
	}
	m := buildMatcher(t, content)

	root := &Root{Elements: []*Element{
		{Name: "TextChunk", Attributes: map[string]Value{"chunkSize": NumberValue(100000)}},
		{Name: "Section", Attributes: map[string]Value{
			"match":     StringValue("Body Section"),
			"end_match": StringValue("charlie one"),
		}},
		{Name: "TextChunk", Attributes: map[string]Value{"chunkSize": NumberValue(100000)}},
	}}

	matches := m.Match(root)
	require.Len(t, matches, 3)

	require.Equal(t, MatchedChunk, matches[0].Matched.Kind)
	require.Equal(t, []string{"a1", "a2", "a3"}, ids(matches[0].Matched.Content))

	require.Equal(t, MatchedSection, matches[1].Matched.Kind)
	require.Equal(t, []string{"heading", "b1", "b2"}, ids(matches[1].Matched.Content))

	require.Equal(t, MatchedChunk, matches[2].Matched.Kind)
	require.Equal(t, []string{"c1", "c2"}, ids(matches[2].Matched.Content))
}

func TestMatchTableHeuristic(t *testing.T) {
	content := []interp.PageContent{
		textEl("intro", 1, 0, "some narrative text"),
		textEl("tbl1", 1, 20, "Column A | Column B | Total"),
		textEl("tbl2", 1, 40, "1 | 2 | 3"),
	}
	m := buildMatcher(t, content)

	root := &Root{Elements: []*Element{{Name: "Table"}}}
	matches := m.Match(root)
	require.Len(t, matches, 1)
	require.Equal(t, MatchedSection, matches[0].Matched.Kind)
	require.Contains(t, ids(matches[0].Matched.Content), "tbl1")
}

func TestMatchUnknownElementSkipped(t *testing.T) {
	m := buildMatcher(t, []interp.PageContent{textEl("t1", 1, 0, "hello")})
	root := &Root{Elements: []*Element{{Name: "Bogus"}}}
	matches := m.Match(root)
	require.Empty(t, matches)
}
