// Package docindex builds and queries the multi-modal content index over a
// processed document's page content: sequential order, per-page grouping,
// a font-size-sorted list for range queries, a spatial R-tree for region
// queries, and font-usage statistics.
package docindex

import (
	"math"
	"sort"

	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/interp"
	"github.com/dhconnelly/rtreego"
)

// sizeEntry pairs a font size with its element index, for the binary-search
// sorted list used by elements_by_font_size.
type sizeEntry struct {
	size float32
	idx  int
}

// countEntry pairs a reference count with its element index, for the
// binary-search sorted list used by elements_by_reference_count.
type countEntry struct {
	count int
	idx   int
}

// FontUsage is one entry of the font_name_frequency_index.
type FontUsage struct {
	Name  string
	Count int
}

// PdfIndex is the constructed, read-only-after-build multi-modal index over
// one document's page content.
type PdfIndex struct {
	allOrdered    []interp.PageContent
	byPage        map[int][]int
	fontSize      []sizeEntry // sorted ascending by size
	refCount      []countEntry // sorted ascending by count, built by UpdateReferenceCounts
	refCounts     []int        // per-index live counters, same length as allOrdered
	spatial       *rtreego.Rtree
	idToIndex     map[string]int
	fontsByName   map[string][]int // canonical font name -> element indices using it
	fontFrequency []FontUsage
}

type spatialLeaf struct {
	bbox rtreego.Rect
	idx  int
}

func (l *spatialLeaf) Bounds() rtreego.Rect { return l.bbox }

// Build performs a single linear pass over page-keyed content: assigns
// sequential global indices, populates by_page, the font-size list,
// fonts/element_id_to_index, and bulk-loads the R-tree. Reference counts
// start at zero; call UpdateReferenceCounts afterward to populate them.
func Build(byPage map[int][]interp.PageContent) *PdfIndex {
	idx := &PdfIndex{
		byPage:      make(map[int][]int),
		idToIndex:   make(map[string]int),
		fontsByName: make(map[string][]int),
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	fontUsage := make(map[string]int)
	for _, page := range pages {
		for _, c := range byPage[page] {
			i := len(idx.allOrdered)
			idx.allOrdered = append(idx.allOrdered, c)
			idx.byPage[page] = append(idx.byPage[page], i)
			idx.idToIndex[c.ID()] = i

			if c.Text != nil {
				idx.fontSize = append(idx.fontSize, sizeEntry{size: c.Text.FontSize, idx: i})
				idx.fontsByName[c.Text.FontName] = append(idx.fontsByName[c.Text.FontName], i)
				fontUsage[c.Text.FontName]++
			}
		}
	}
	sort.Slice(idx.fontSize, func(a, b int) bool { return idx.fontSize[a].size < idx.fontSize[b].size })

	idx.refCounts = make([]int, len(idx.allOrdered))

	idx.fontFrequency = make([]FontUsage, 0, len(fontUsage))
	for name, count := range fontUsage {
		idx.fontFrequency = append(idx.fontFrequency, FontUsage{Name: name, Count: count})
	}
	sort.Slice(idx.fontFrequency, func(a, b int) bool {
		if idx.fontFrequency[a].Count != idx.fontFrequency[b].Count {
			return idx.fontFrequency[a].Count > idx.fontFrequency[b].Count
		}
		return idx.fontFrequency[a].Name < idx.fontFrequency[b].Name
	})

	idx.spatial = rtreego.NewTree(2, 25, 50)
	for i, c := range idx.allOrdered {
		idx.spatial.Insert(&spatialLeaf{bbox: toRtreeRect(c.BBox()), idx: i})
	}

	idx.refCount = buildCountIndex(idx.refCounts)
	return idx
}

// toRtreeRect converts a geometry.Rect to an rtreego.Rect, clamping
// degenerate (zero-area) rects to a minimal positive extent since rtreego
// requires strictly positive side lengths.
func toRtreeRect(r geometry.Rect) rtreego.Rect {
	const eps = 1e-6
	w := float64(r.X1 - r.X0)
	h := float64(r.Y1 - r.Y0)
	if w <= 0 {
		w = eps
	}
	if h <= 0 {
		h = eps
	}
	rect, err := rtreego.NewRect(rtreego.Point{float64(r.X0), float64(r.Y0)}, []float64{w, h})
	if err != nil {
		rect, _ = rtreego.NewRect(rtreego.Point{float64(r.X0), float64(r.Y0)}, []float64{eps, eps})
	}
	return rect
}

func buildCountIndex(counts []int) []countEntry {
	entries := make([]countEntry, len(counts))
	for i, c := range counts {
		entries[i] = countEntry{count: c, idx: i}
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].count < entries[b].count })
	return entries
}

// ElementsOnPage returns the page's content in emission order.
func (idx *PdfIndex) ElementsOnPage(page int) []interp.PageContent {
	out := make([]interp.PageContent, 0, len(idx.byPage[page]))
	for _, i := range idx.byPage[page] {
		out = append(out, idx.allOrdered[i])
	}
	return out
}

// ElementsByFontSize returns text elements whose font size falls in
// [min, max], found via binary search on the sorted font-size list.
func (idx *PdfIndex) ElementsByFontSize(min, max float32) []interp.PageContent {
	lo := sort.Search(len(idx.fontSize), func(i int) bool { return idx.fontSize[i].size >= min })
	hi := sort.Search(len(idx.fontSize), func(i int) bool { return idx.fontSize[i].size > max })
	out := make([]interp.PageContent, 0, hi-lo)
	for _, e := range idx.fontSize[lo:hi] {
		out = append(out, idx.allOrdered[e.idx])
	}
	return out
}

// ElementsByReferenceCount returns all content whose reference count is at
// least min, found via binary search on reference_count_index. Call
// UpdateReferenceCounts first; otherwise all counts are zero.
func (idx *PdfIndex) ElementsByReferenceCount(min int) []interp.PageContent {
	lo := sort.Search(len(idx.refCount), func(i int) bool { return idx.refCount[i].count >= min })
	out := make([]interp.PageContent, 0, len(idx.refCount)-lo)
	for _, e := range idx.refCount[lo:] {
		out = append(out, idx.allOrdered[e.idx])
	}
	return out
}

// ElementsInRegion returns content whose bbox intersects rect, via R-tree
// query.
func (idx *PdfIndex) ElementsInRegion(rect geometry.Rect) []interp.PageContent {
	hits := idx.spatial.SearchIntersect(toRtreeRect(rect))
	out := make([]interp.PageContent, 0, len(hits))
	for _, h := range hits {
		out = append(out, idx.allOrdered[h.(*spatialLeaf).idx])
	}
	return out
}

// SearchFilter bundles the optional filters accepted by Search; a nil
// pointer/field means "no constraint".
type SearchFilter struct {
	Page         *int
	FontSizeMin  *float32
	FontSizeMax  *float32
	MinRefs      *int
	Region       *geometry.Rect
}

// Search returns the set intersection of every supplied filter's matches:
// page, font-size range, minimum reference count, and spatial region.
func (idx *PdfIndex) Search(f SearchFilter) []interp.PageContent {
	var sets []map[int]bool
	toSet := func(contents []interp.PageContent) map[int]bool {
		s := make(map[int]bool, len(contents))
		for _, c := range contents {
			s[idx.idToIndex[c.ID()]] = true
		}
		return s
	}

	if f.Page != nil {
		sets = append(sets, toSet(idx.ElementsOnPage(*f.Page)))
	}
	if f.FontSizeMin != nil || f.FontSizeMax != nil {
		min, max := float32(0), float32(math.MaxFloat32)
		if f.FontSizeMin != nil {
			min = *f.FontSizeMin
		}
		if f.FontSizeMax != nil {
			max = *f.FontSizeMax
		}
		sets = append(sets, toSet(idx.ElementsByFontSize(min, max)))
	}
	if f.MinRefs != nil {
		sets = append(sets, toSet(idx.ElementsByReferenceCount(*f.MinRefs)))
	}
	if f.Region != nil {
		sets = append(sets, toSet(idx.ElementsInRegion(*f.Region)))
	}

	if len(sets) == 0 {
		return append([]interp.PageContent(nil), idx.allOrdered...)
	}
	result := sets[0]
	for _, s := range sets[1:] {
		for i := range result {
			if !s[i] {
				delete(result, i)
			}
		}
	}
	indices := make([]int, 0, len(result))
	for i := range result {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	out := make([]interp.PageContent, 0, len(indices))
	for _, i := range indices {
		out = append(out, idx.allOrdered[i])
	}
	return out
}

// FontFilter bundles the optional filters accepted by ElementsByFont.
type FontFilter struct {
	Name     *string
	Size     *float32
	SizeMin  *float32
	SizeMax  *float32
}

// ElementsByFont iterates the fonts index with the supplied filters and
// returns deduplicated content.
func (idx *PdfIndex) ElementsByFont(f FontFilter) []interp.PageContent {
	seen := make(map[int]bool)
	var out []interp.PageContent

	names := []string{}
	if f.Name != nil {
		names = append(names, *f.Name)
	} else {
		for name := range idx.fontsByName {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	for _, name := range names {
		for _, i := range idx.fontsByName[name] {
			c := idx.allOrdered[i]
			if c.Text == nil {
				continue
			}
			if f.Size != nil && c.Text.FontSize != *f.Size {
				continue
			}
			if f.SizeMin != nil && c.Text.FontSize < *f.SizeMin {
				continue
			}
			if f.SizeMax != nil && c.Text.FontSize > *f.SizeMax {
				continue
			}
			if seen[i] {
				continue
			}
			seen[i] = true
			out = append(out, c)
		}
	}
	return out
}

// FontSizeStats is the result of FontSizeStats: mean, population standard
// deviation, and selected percentiles over the sorted font-size list.
type FontSizeStats struct {
	Mean   float64
	StdDev float64
	P25    float32
	P50    float32
	P75    float32
	P90    float32
	P95    float32
}

// FontSizeStats computes mean, std-dev, and the 25/50/75/90/95 percentiles
// from the sorted font-size list. An empty index returns a zero-value
// stats struct with Mean defaulting to 12.
func (idx *PdfIndex) FontSizeStats() FontSizeStats {
	if len(idx.fontSize) == 0 {
		return FontSizeStats{Mean: 12}
	}
	var sum float64
	for _, e := range idx.fontSize {
		sum += float64(e.size)
	}
	mean := sum / float64(len(idx.fontSize))

	var variance float64
	for _, e := range idx.fontSize {
		d := float64(e.size) - mean
		variance += d * d
	}
	variance /= float64(len(idx.fontSize))

	percentile := func(p float64) float32 {
		if len(idx.fontSize) == 1 {
			return idx.fontSize[0].size
		}
		rank := p / 100 * float64(len(idx.fontSize)-1)
		lo := int(math.Floor(rank))
		hi := int(math.Ceil(rank))
		if lo == hi {
			return idx.fontSize[lo].size
		}
		frac := rank - float64(lo)
		return idx.fontSize[lo].size + float32(frac)*(idx.fontSize[hi].size-idx.fontSize[lo].size)
	}

	return FontSizeStats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		P25:    percentile(25),
		P50:    percentile(50),
		P75:    percentile(75),
		P90:    percentile(90),
		P95:    percentile(95),
	}
}

// FontFrequency returns the font_name_frequency_index: canonical font
// names sorted by usage count descending, name ascending as tiebreak.
func (idx *PdfIndex) FontFrequency() []FontUsage {
	return append([]FontUsage(nil), idx.fontFrequency...)
}

// HeadingStyle is one (name, size) pairing identified as a probable
// heading style by IdentifyHeadingLevels.
type HeadingStyle struct {
	Name  string
	Size  float32
	Usage int
}

// IdentifyHeadingLevels computes a usage-weighted mean font size
// (excluding size-1 singletons over 30pt, a common artifact of stray
// large glyphs) and returns up to k (name, size) styles whose size
// exceeds 1.1x the mean, whose usage is at least 2, and whose usage is
// at most max(1, total_text/5), sorted by size desc then usage desc.
func (idx *PdfIndex) IdentifyHeadingLevels(k int) []HeadingStyle {
	type key struct {
		name string
		size float32
	}
	usage := make(map[key]int)
	totalText := 0
	for _, c := range idx.allOrdered {
		if c.Text == nil {
			continue
		}
		totalText++
		usage[key{c.Text.FontName, c.Text.FontSize}]++
	}

	var weightedSum float64
	var weightedCount int
	for ks, u := range usage {
		if u == 1 && ks.size > 30 {
			continue
		}
		weightedSum += float64(ks.size) * float64(u)
		weightedCount += u
	}
	mean := 12.0
	if weightedCount > 0 {
		mean = weightedSum / float64(weightedCount)
	}

	maxUsage := 1
	if v := totalText / 5; v > maxUsage {
		maxUsage = v
	}

	var candidates []HeadingStyle
	for ks, u := range usage {
		if float64(ks.size) <= 1.1*mean {
			continue
		}
		if u < 2 || u > maxUsage {
			continue
		}
		candidates = append(candidates, HeadingStyle{Name: ks.name, Size: ks.size, Usage: u})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Size != candidates[b].Size {
			return candidates[a].Size > candidates[b].Size
		}
		return candidates[a].Usage > candidates[b].Usage
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// GetElementsBetweenMarkers returns all_ordered_content[idx(start) ..
// idx(end) or end-of-doc), a half-open range. A nil/unresolvable end
// defaults to the document end.
func (idx *PdfIndex) GetElementsBetweenMarkers(start string, end *string) []interp.PageContent {
	s, ok := idx.idToIndex[start]
	if !ok {
		return nil
	}
	e := len(idx.allOrdered)
	if end != nil {
		if ei, ok := idx.idToIndex[*end]; ok {
			e = ei
		}
	}
	if e < s {
		e = s
	}
	return append([]interp.PageContent(nil), idx.allOrdered[s:e]...)
}

// GetElementsAfter returns all_ordered_content[idx(m)..].
func (idx *PdfIndex) GetElementsAfter(marker string) []interp.PageContent {
	s, ok := idx.idToIndex[marker]
	if !ok {
		return nil
	}
	return append([]interp.PageContent(nil), idx.allOrdered[s:]...)
}

// IndexOf returns the global sequential index of an element id, for callers
// (the template matcher) that need to express ranges positionally.
func (idx *PdfIndex) IndexOf(id string) (int, bool) {
	i, ok := idx.idToIndex[id]
	return i, ok
}

// AllOrdered returns the full sequential content list.
func (idx *PdfIndex) AllOrdered() []interp.PageContent {
	return append([]interp.PageContent(nil), idx.allOrdered...)
}

// Slice returns all_ordered_content[start:end], clamped to bounds.
func (idx *PdfIndex) Slice(start, end int) []interp.PageContent {
	if start < 0 {
		start = 0
	}
	if end > len(idx.allOrdered) {
		end = len(idx.allOrdered)
	}
	if end < start {
		end = start
	}
	return idx.allOrdered[start:end]
}

// Len returns the number of elements in all_ordered_content.
func (idx *PdfIndex) Len() int { return len(idx.allOrdered) }
