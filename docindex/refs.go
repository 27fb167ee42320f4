package docindex

import (
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/pdfsrc"
)

// UpdateReferenceCounts walks the resolved named destinations and bumps a
// per-element counter for every content element spatially near a
// destination's target point on its target page. Must be called before
// any query that depends on reference counts; it materializes
// reference_count_index sorted ascending by count.
func (idx *PdfIndex) UpdateReferenceCounts(dests map[string]pdfsrc.Destination) {
	for _, d := range dests {
		envelope := destEnvelope(d)
		for _, c := range idx.ElementsInRegion(envelope) {
			if c.Page() != d.Page {
				continue
			}
			i, ok := idx.idToIndex[c.ID()]
			if !ok {
				continue
			}
			idx.refCounts[i]++
		}
	}
	idx.refCount = buildCountIndex(idx.refCounts)
}

// destEnvelope builds the R-tree search envelope for a destination: a
// small square around (x, y) if x is known, otherwise a wide horizontal
// band around y.
func destEnvelope(d pdfsrc.Destination) geometry.Rect {
	if d.Y == nil {
		return geometry.Rect{X0: 0, Y0: 0, X1: 2000, Y1: 2000}
	}
	y := *d.Y
	if d.X != nil {
		x := *d.X
		return geometry.Rect{X0: x - 10, Y0: y - 10, X1: x + 10, Y1: y + 10}
	}
	return geometry.Rect{X0: 0, Y0: y - 10, X1: 2000, Y1: y + 10}
}
