package template

import (
	"strings"
	"unicode"

	"github.com/delvergo/delver/chunk"
	"github.com/delvergo/delver/config"
	"github.com/delvergo/delver/dlog"
	"github.com/delvergo/delver/docindex"
	"github.com/delvergo/delver/interp"
	"github.com/delvergo/delver/layout"
)

var (
	matcherLog = dlog.Named("matcher_operations")
	matchLog   = dlog.Named("template_match")
)

// MatchedKind tags which field of MatchedContent is populated: one of
// Block | Line | Element | Section | Chunk | None.
type MatchedKind int

const (
	MatchedNone MatchedKind = iota
	MatchedBlock
	MatchedLine
	MatchedElement
	MatchedSection
	MatchedChunk
)

// MatchedContent is the content a TemplateContentMatch node resolved to.
type MatchedContent struct {
	Kind    MatchedKind
	Block   *layout.TextBlock
	Line    *layout.TextLine
	Element *interp.TextElement

	// Section/Chunk: the matched PageContent, contiguous and duplicate-free.
	Content []interp.PageContent

	// Section only: half-open [StartIdx, EndIdx) into the index's
	// all_ordered_content, the contract downstream children are bound by.
	StartIdx int
	EndIdx   int
}

// ContentMatch is the match-tree node: the template element that
// produced it, its matched content, an ordered
// list of child matches, and inherited+augmented metadata. Immutable once
// built.
type ContentMatch struct {
	Template *Element
	Matched  MatchedContent
	Children []*ContentMatch
	Metadata map[string]Value
}

// Matcher holds the read-only inputs a Match call needs: the built index,
// its line layer, and the chunking/tokenizing configuration.
type Matcher struct {
	idx       *docindex.PdfIndex
	lines     []candidateLine
	cfg       config.Config
	tokenizer chunk.Tokenizer
}

// NewMatcher builds the candidate line layer once over idx's content.
func NewMatcher(idx *docindex.PdfIndex, blocksByPage map[int][]layout.TextBlock, cfg config.Config, tokenizer chunk.Tokenizer) *Matcher {
	return &Matcher{
		idx:       idx,
		lines:     buildCandidateLines(idx, blocksByPage),
		cfg:       cfg,
		tokenizer: tokenizer,
	}
}

// Match aligns root's top-level element list against the index with no
// start bound, producing the top-level match list.
func (m *Matcher) Match(root *Root) []*ContentMatch {
	return m.matchSiblings(root.Elements, root, 0, m.idx.Len(), map[string]Value{})
}

// matchSiblings matches an ordered list of template nodes against
// [fromIdx, toIdx), each node constrained to start at-or-after the
// previous node's consumed end index. A non-Section sibling
// (TextChunk/Table/Image) has no pattern of its own to stop at, so it is
// bounded by the start of the next Section sibling in the same list,
// found by a non-consuming lookahead (documented in DESIGN.md).
func (m *Matcher) matchSiblings(elems []*Element, root *Root, fromIdx, toIdx int, inherited map[string]Value) []*ContentMatch {
	var out []*ContentMatch
	cur := fromIdx
	for i, el := range elems {
		localTo := toIdx
		if el.Name != "Section" {
			if next, ok := m.peekNextSectionStart(elems[i+1:], root, cur, toIdx, inherited); ok {
				localTo = next
			}
		}
		if cur > localTo {
			cur = localTo
		}
		matches, next := m.matchNode(el, root, cur, localTo, inherited)
		out = append(out, matches...)
		if next > cur {
			cur = next
		}
		if cur > toIdx {
			cur = toIdx
		}
	}
	return out
}

// peekNextSectionStart scans a sibling tail for the first Section element
// and, without committing any state, resolves where its match pattern
// would start within [fromIdx, toIdx).
func (m *Matcher) peekNextSectionStart(tail []*Element, root *Root, fromIdx, toIdx int, inherited map[string]Value) (int, bool) {
	for _, el := range tail {
		if el.Name != "Section" {
			continue
		}
		expr, threshold, ok := m.resolveSectionMatch(el, root, "match")
		if !ok {
			return 0, false
		}
		hit, found := evaluateExpression(expr, m.lines, fromIdx, toIdx, threshold)
		if !found {
			return 0, false
		}
		return hit.line.firstIdx, true
	}
	return 0, false
}

// matchNode dispatches one template node by name and returns the
// match(es) it produced plus the index the next sibling
// should start at-or-after.
func (m *Matcher) matchNode(el *Element, root *Root, fromIdx, toIdx int, inherited map[string]Value) ([]*ContentMatch, int) {
	switch el.Name {
	case "Section":
		return m.matchSection(el, root, fromIdx, toIdx, inherited)
	case "TextChunk":
		return m.matchTextChunk(el, fromIdx, toIdx, inherited)
	case "Table":
		return m.matchTable(el, fromIdx, toIdx, inherited)
	case "Image":
		return m.matchImage(el, fromIdx, toIdx, inherited)
	default:
		matcherLog.Debug("unsupported template element type: %s", el.Name)
		return nil, fromIdx
	}
}

// resolveSectionMatch resolves a Section's `match` or `end_match`
// attribute into a MatchExpression: a String attribute is an inline
// literal pattern, an Identifier resolves against
// root's match-definition table.
func (m *Matcher) resolveSectionMatch(el *Element, root *Root, attr string) (MatchExpression, float64, bool) {
	threshold := m.sectionThreshold(el)
	v, ok := el.Attr(attr)
	if !ok {
		return nil, threshold, false
	}
	switch v.Kind {
	case KindString:
		return MatchConfig{Kind: MatchText, Pattern: v.Str, Threshold: threshold}, threshold, true
	case KindIdentifier:
		expr, ok := root.MatchDefinitions[v.Ident]
		if !ok {
			matcherLog.Debug("unresolved match definition identifier: %s", v.Ident)
			return nil, threshold, false
		}
		return expr, threshold, true
	default:
		return nil, threshold, false
	}
}

// sectionThreshold reads the `threshold` attribute (an integer /1000,
// default 300) and applies a 0.2 clamp floor, preserved for parity with
// the system this was rewritten from (see DESIGN.md).
func (m *Matcher) sectionThreshold(el *Element) float64 {
	threshold := float64(m.cfg.SectionMatchThreshold)
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if v, ok := el.Attr("threshold"); ok && v.Kind == KindNumber {
		threshold = float64(v.Num) / 1000.0
	}
	if threshold < minThreshold {
		threshold = minThreshold
	}
	return threshold
}

// matchSection implements Section matching: resolve match/end_match,
// locate the section range, collect its content,
// set metadata, then recurse into children bounded by that range.
func (m *Matcher) matchSection(el *Element, root *Root, fromIdx, toIdx int, inherited map[string]Value) ([]*ContentMatch, int) {
	optional := false
	if v, ok := el.Attr("optional"); ok && v.Kind == KindBoolean {
		optional = v.Bool
	}

	expr, threshold, ok := m.resolveSectionMatch(el, root, "match")
	if !ok {
		matcherLog.Debug("section has no resolvable match attribute")
		return []*ContentMatch{{Template: el, Matched: MatchedContent{Kind: MatchedNone}, Metadata: inherited}}, fromIdx
	}

	hit, found := evaluateExpression(expr, m.lines, fromIdx, toIdx, threshold)
	if !found {
		if !optional {
			matchLog.Debug("required section '%s' matched no content", el.Name)
		}
		return []*ContentMatch{{Template: el, Matched: MatchedContent{Kind: MatchedNone}, Metadata: inherited}}, fromIdx
	}
	startIdx := hit.line.firstIdx

	endIdx := toIdx
	if endExpr, endThreshold, ok := m.resolveSectionMatch(el, root, "end_match"); ok {
		if endHit, found := evaluateExpression(endExpr, m.lines, startIdx+1, toIdx, endThreshold); found {
			endIdx = endHit.line.firstIdx
		}
	}
	if endIdx < startIdx {
		endIdx = startIdx
	}

	content := m.idx.Slice(startIdx, endIdx)
	metadata := withSectionMetadata(inherited, el)

	match := &ContentMatch{
		Template: el,
		Matched: MatchedContent{
			Kind:     MatchedSection,
			Content:  content,
			StartIdx: startIdx,
			EndIdx:   endIdx,
		},
		Metadata: metadata,
	}
	match.Children = m.matchSiblings(el.Children, root, startIdx, endIdx, metadata)

	matchLog.Debug("section '%s' matched [%d,%d) score=%.2f", el.Name, startIdx, endIdx, hit.score)
	return []*ContentMatch{match}, endIdx
}

// withSectionMetadata copies inherited metadata and, if the element
// carries an `as` attribute, sets section/section_name.
func withSectionMetadata(inherited map[string]Value, el *Element) map[string]Value {
	out := make(map[string]Value, len(inherited)+2)
	for k, v := range inherited {
		out[k] = v
	}
	if v, ok := el.Attr("as"); ok && v.Kind == KindString {
		out["section"] = StringValue(v.Str)
		out["section_name"] = StringValue(identifierize(v.Str))
	}
	return out
}

// identifierize turns a human label into an identifier-safe name: "&" is
// spelled out and every remaining non-alphanumeric character is dropped.
func identifierize(s string) string {
	s = strings.ReplaceAll(s, "&", "and")
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchTextChunk implements TextChunk matching: slice the given
// range's text elements into overlapping windows by the
// configured budget, emitting one Chunk match per window.
func (m *Matcher) matchTextChunk(el *Element, fromIdx, toIdx int, inherited map[string]Value) ([]*ContentMatch, int) {
	chunkSize := 1000
	if v, ok := el.Attr("chunkSize"); ok && v.Kind == KindNumber && v.Num > 0 {
		chunkSize = int(v.Num)
	}
	overlap := 0
	if v, ok := el.Attr("overlap"); ok && v.Kind == KindNumber && v.Num >= 0 {
		overlap = int(v.Num)
	}
	unit := chunk.Chars
	if v, ok := el.Attr("unit"); ok && v.Kind == KindString && v.Str == "tokens" {
		unit = chunk.Tokens
	}

	content := m.idx.Slice(fromIdx, toIdx)
	var elements []*interp.TextElement
	for _, c := range content {
		if c.Text != nil {
			elements = append(elements, c.Text)
		}
	}
	if len(elements) == 0 {
		return nil, toIdx
	}

	windows, err := chunk.Elements(elements, chunkSize, overlap, unit, m.tokenizer)
	if err != nil {
		matchLog.Debug("text chunk: tokenizer failed: %v", err)
		return nil, toIdx
	}

	out := make([]*ContentMatch, 0, len(windows))
	for _, w := range windows {
		pc := make([]interp.PageContent, 0, len(w))
		for _, e := range w {
			pc = append(pc, interp.PageContent{Text: e})
		}
		out = append(out, &ContentMatch{
			Template: el,
			Matched:  MatchedContent{Kind: MatchedChunk, Content: pc},
			Metadata: inherited,
		})
	}
	return out, toIdx
}

var tableIndicators = []string{"table", "column", "row", "total"}

// matchTable is the Table placeholder matcher: lines containing "|",
// a table keyword, or 5+ spaces.
func (m *Matcher) matchTable(el *Element, fromIdx, toIdx int, inherited map[string]Value) ([]*ContentMatch, int) {
	return m.matchHeuristicPlaceholder(el, fromIdx, toIdx, inherited, func(text string) bool {
		if strings.Contains(text, "|") {
			return true
		}
		lower := strings.ToLower(text)
		for _, ind := range tableIndicators {
			if strings.Contains(lower, ind) {
				return true
			}
		}
		return strings.Count(text, " ") >= 5
	})
}

var imageIndicators = []string{"figure", "image", "diagram", "illustration", "photo", "picture"}

// matchImage is the Image placeholder matcher: lines mentioning a
// figure/caption keyword.
func (m *Matcher) matchImage(el *Element, fromIdx, toIdx int, inherited map[string]Value) ([]*ContentMatch, int) {
	return m.matchHeuristicPlaceholder(el, fromIdx, toIdx, inherited, func(text string) bool {
		lower := strings.ToLower(text)
		for _, ind := range imageIndicators {
			if strings.Contains(lower, ind) {
				return true
			}
		}
		return false
	})
}

// matchHeuristicPlaceholder finds the first candidate line in range
// satisfying predicate and reports the span from there to toIdx as a
// Section-shaped match.
func (m *Matcher) matchHeuristicPlaceholder(el *Element, fromIdx, toIdx int, inherited map[string]Value, predicate func(string) bool) ([]*ContentMatch, int) {
	var first *candidateLine
	for i := range m.lines {
		l := m.lines[i]
		if l.firstIdx < fromIdx || l.firstIdx >= toIdx {
			continue
		}
		if !predicate(l.line.Text()) {
			continue
		}
		first = &m.lines[i]
		break
	}
	if first == nil {
		return []*ContentMatch{{Template: el, Matched: MatchedContent{Kind: MatchedNone}, Metadata: inherited}}, fromIdx
	}

	startIdx := first.firstIdx
	endIdx := toIdx
	content := m.idx.Slice(startIdx, endIdx)
	metadata := withSectionMetadata(inherited, el)
	match := &ContentMatch{
		Template: el,
		Matched: MatchedContent{
			Kind:     MatchedSection,
			Content:  content,
			StartIdx: startIdx,
			EndIdx:   endIdx,
		},
		Metadata: metadata,
	}
	return []*ContentMatch{match}, endIdx
}
