package template

import (
	"sort"

	"github.com/delvergo/delver/docindex"
	"github.com/delvergo/delver/layout"
)

// candidateLine is one line-layer entry the matcher scores template
// patterns against, tagged with the all_ordered_content index of its
// first element so section ranges can be expressed positionally.
type candidateLine struct {
	line     layout.TextLine
	firstIdx int
}

// buildCandidateLines flattens a page->[]TextBlock map (as produced by
// layout.GroupPages) into a single reading-order line list, resolving
// each line's first element back to its position in idx's sequential
// content: the line layer the matcher scores candidates against.
func buildCandidateLines(idx *docindex.PdfIndex, blocksByPage map[int][]layout.TextBlock) []candidateLine {
	pages := make([]int, 0, len(blocksByPage))
	for p := range blocksByPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var out []candidateLine
	for _, p := range pages {
		for _, block := range blocksByPage[p] {
			for _, line := range block.Lines {
				if len(line.Elements) == 0 {
					continue
				}
				i, ok := idx.IndexOf(line.Elements[0].ID)
				if !ok {
					continue
				}
				out = append(out, candidateLine{line: line, firstIdx: i})
			}
		}
	}
	return out
}
