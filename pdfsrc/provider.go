// Package pdfsrc is the PDF object-graph provider collaborator:
// load-from-memory, page iteration, content-stream decoding,
// resource/MediaBox/Rotate access, reference resolution and
// named-destination traversal. It is a thin adapter over the kept
// core/model packages so interp and docindex depend only on the Provider
// interface, never on the concrete reader.
package pdfsrc

import (
	"github.com/delvergo/delver/contentstream"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/model"
)

// Provider is the PDF object-graph capability the page interpreter and
// reference resolver consume.
type Provider interface {
	NumPages() int
	Page(pageNumber int) (Page, error)
	Destinations() (map[string]Destination, error)
}

// Page exposes the per-page state the interpreter's pre-pass and operator
// loop need.
type Page interface {
	PageNumber() int
	MediaBox() geometry.Rect
	Rotate() int64
	ContentOperations() (*contentstream.ContentStreamOperations, error)
	Resources() *model.PdfPageResources
}

// Destination is a resolved PDF named destination: a target page plus
// optional X/Y coordinates in PDF (bottom-left-origin) page space.
type Destination struct {
	Page int
	X    *float32
	Y    *float32
}
