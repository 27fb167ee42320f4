package docindex

import (
	"github.com/agnivade/levenshtein"
	"github.com/delvergo/delver/interp"
)

// TextMatch is one hit from FindTextMatches.
type TextMatch struct {
	Element   *interp.TextElement
	Index     int
	Score     float64
}

// FindTextMatches scans forward from an optional start index and returns
// text elements whose normalized-Levenshtein similarity to text is at
// least threshold.
func (idx *PdfIndex) FindTextMatches(text string, threshold float64, start int) []TextMatch {
	if start < 0 {
		start = 0
	}
	var out []TextMatch
	for i := start; i < len(idx.allOrdered); i++ {
		c := idx.allOrdered[i]
		if c.Text == nil {
			continue
		}
		score := normalizedSimilarity(text, c.Text.Text)
		if score >= threshold {
			out = append(out, TextMatch{Element: c.Text, Index: i, Score: score})
		}
	}
	return out
}

// normalizedSimilarity converts agnivade/levenshtein's edit distance into a
// [0,1] similarity score, 1 meaning identical.
func normalizedSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

// Snapshot returns the index's ordered content with each TextElement's
// ReferenceCount field filled in from reference_count_index (the
// interpreter never sets this field itself).
func (idx *PdfIndex) Snapshot() []interp.PageContent {
	out := make([]interp.PageContent, len(idx.allOrdered))
	for i, c := range idx.allOrdered {
		if c.Text != nil {
			t := *c.Text
			t.ReferenceCount = idx.refCounts[i]
			c.Text = &t
		}
		out[i] = c
	}
	return out
}
