// Package interp is the page content-stream interpreter: the state machine
// that executes a page's operators (graphics state, text state, glyph
// painting, external-object placement) and recovers positioned text runs
// and image placements in a top-left page coordinate system. Grounded on
// contentstream.ContentStreamProcessor's handler-dispatch architecture
// (graphics-state stack, tokenizer reuse) and extractor's
// textState/textObject split, reimplemented against PageContent rather
// than unidoc's glyph-rendering pipeline.
package interp

import (
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/geometry"
)

// TextElement is a maximal text run emitted by the interpreter: one run
// corresponds to a contiguous sequence of glyph-painting operators under an
// unchanged text matrix/font.
type TextElement struct {
	ID       string
	Text     string
	FontSize float32
	FontName string // canonicalized, per fontmetrics.CanonicalizeFontName
	BBox     geometry.Rect
	Page     int

	// OpLog is a diagnostic breadcrumb of the operators that produced this
	// run, not consumed by any query - useful only for debugging a bad
	// extraction.
	OpLog []string

	// ReferenceCount mirrors docindex.PdfIndex's reference_count_index for
	// this element. Always 0 as emitted by the interpreter; populated only
	// by docindex.PdfIndex.Snapshot at serialization time.
	ReferenceCount int
}

// ImageElement is an image XObject placement.
type ImageElement struct {
	ID     string
	Page   int
	BBox   geometry.Rect
	Format string // content-sniffed mime-ish tag ("jpg", "png", ""), see github.com/h2non/filetype
	Object core.PdfObject
}

// PageContent is a tagged union of Text(TextElement) | Image(ImageElement).
// Exactly one of Text/Image is non-nil.
type PageContent struct {
	Text  *TextElement
	Image *ImageElement
}

// Page returns the originating page number of whichever variant is set.
func (c PageContent) Page() int {
	if c.Text != nil {
		return c.Text.Page
	}
	if c.Image != nil {
		return c.Image.Page
	}
	return 0
}

// BBox returns the bounding box of whichever variant is set.
func (c PageContent) BBox() geometry.Rect {
	if c.Text != nil {
		return c.Text.BBox
	}
	if c.Image != nil {
		return c.Image.BBox
	}
	return geometry.Rect{}
}

// ID returns the element id of whichever variant is set.
func (c PageContent) ID() string {
	if c.Text != nil {
		return c.Text.ID
	}
	if c.Image != nil {
		return c.Image.ID
	}
	return ""
}
