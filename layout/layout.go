// Package layout groups a page's text runs into lines and lines into
// blocks by geometric proximity, the reading-order reconstruction step
// between the page interpreter and the document index.
package layout

import (
	"sort"

	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/interp"
)

// TextLine is a run of interp.TextElement judged to sit on the same visual
// line: consecutive elements, sorted in reading order, whose vertical
// centers differ by less than lineJoin.
type TextLine struct {
	ID       string
	Page     int
	BBox     geometry.Rect
	Elements []*interp.TextElement
}

// Text concatenates the line's elements' text in reading order.
func (l TextLine) Text() string {
	var out []byte
	for i, e := range l.Elements {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, e.Text...)
	}
	return string(out)
}

// TextBlock is a run of consecutive TextLines whose vertical gaps are all
// smaller than blockJoin.
type TextBlock struct {
	ID    string
	Page  int
	BBox  geometry.Rect
	Lines []TextLine
}

// GroupPages groups page->[]TextElement into page->[]TextBlock using the
// given lineJoin/blockJoin thresholds. Elements are sorted within each
// page by (y_center asc, x0 asc) before grouping; ids are freshly minted
// sequentially per page.
func GroupPages(byPage map[int][]*interp.TextElement, lineJoin, blockJoin float32) map[int][]TextBlock {
	out := make(map[int][]TextBlock, len(byPage))
	for page, elements := range byPage {
		out[page] = groupPage(page, elements, lineJoin, blockJoin)
	}
	return out
}

func groupPage(page int, elements []*interp.TextElement, lineJoin, blockJoin float32) []TextBlock {
	sorted := append([]*interp.TextElement(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := yCenter(sorted[i].BBox), yCenter(sorted[j].BBox)
		if ci != cj {
			return ci < cj
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	lines := groupLines(page, sorted, lineJoin)
	return groupBlocks(page, lines, blockJoin)
}

func groupLines(page int, sorted []*interp.TextElement, lineJoin float32) []TextLine {
	var lines []TextLine
	seq := 0
	var cur []*interp.TextElement
	var curCenter float32

	flush := func() {
		if len(cur) == 0 {
			return
		}
		seq++
		lines = append(lines, TextLine{
			ID:       lineID(page, seq),
			Page:     page,
			BBox:     unionAll(cur),
			Elements: cur,
		})
		cur = nil
	}

	for _, e := range sorted {
		c := yCenter(e.BBox)
		if len(cur) == 0 {
			cur = []*interp.TextElement{e}
			curCenter = c
			continue
		}
		if abs(c-curCenter) < lineJoin {
			cur = append(cur, e)
			continue
		}
		flush()
		cur = []*interp.TextElement{e}
		curCenter = c
	}
	flush()
	return lines
}

func groupBlocks(page int, lines []TextLine, blockJoin float32) []TextBlock {
	var blocks []TextBlock
	seq := 0
	var cur []TextLine

	flush := func() {
		if len(cur) == 0 {
			return
		}
		seq++
		bbox := cur[0].BBox
		for _, l := range cur[1:] {
			bbox = bbox.Union(l.BBox)
		}
		blocks = append(blocks, TextBlock{
			ID:    blockID(page, seq),
			Page:  page,
			BBox:  bbox,
			Lines: cur,
		})
		cur = nil
	}

	for _, l := range lines {
		if len(cur) == 0 {
			cur = []TextLine{l}
			continue
		}
		prev := cur[len(cur)-1]
		gap := l.BBox.Y0 - prev.BBox.Y1
		if gap < blockJoin {
			cur = append(cur, l)
			continue
		}
		flush()
		cur = []TextLine{l}
	}
	flush()
	return blocks
}

func yCenter(r geometry.Rect) float32 { return (r.Y0 + r.Y1) / 2 }

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func unionAll(elements []*interp.TextElement) geometry.Rect {
	r := elements[0].BBox
	for _, e := range elements[1:] {
		r = r.Union(e.BBox)
	}
	return r
}
