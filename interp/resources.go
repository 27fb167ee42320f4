package interp

import (
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/dlog"
	"github.com/delvergo/delver/fontmetrics"
	"github.com/delvergo/delver/model"
)

// pageResources is the pre-pass result for one page: a name->font map and a
// name->XObject stream map, resolved once before the operator loop runs.
type pageResources struct {
	fonts   map[string]*resolvedFont
	images  map[string]*core.PdfObjectStream
	forms   map[string]*core.PdfObjectStream
}

// resolvedFont bundles the model.PdfFont needed for byte->rune decoding with
// the canonical fontmetrics.FontMetrics used for glyph-width lookup.
type resolvedFont struct {
	font       *model.PdfFont
	canonical  string
	metrics    fontmetrics.FontMetrics
	hasMetrics bool
}

// resolveResources walks a page's Resources dictionary once, resolving every
// named Font to a model.PdfFont plus its canonical width table and every
// named XObject to its raw stream (image or form), so the operator loop
// never touches the resource dictionary itself.
func resolveResources(log *dlog.Logger, res *model.PdfPageResources) *pageResources {
	out := &pageResources{
		fonts:  make(map[string]*resolvedFont),
		images: make(map[string]*core.PdfObjectStream),
		forms:  make(map[string]*core.PdfObjectStream),
	}
	if res == nil {
		return out
	}

	if fontDict, ok := core.TraceToDirectObject(res.Font).(*core.PdfObjectDictionary); ok {
		for _, name := range fontDict.Keys() {
			obj, has := res.GetFontByName(name)
			if !has {
				continue
			}
			font, err := model.NewPdfFontFromPdfObject(obj)
			if err != nil {
				log.Debug("resolveResources: skipping font %s: %v", name, err)
				continue
			}
			canonical := fontmetrics.CanonicalizeFontName(font.BaseFont())
			metrics, hasMetrics := fontmetrics.Lookup(canonical)
			out.fonts[string(name)] = &resolvedFont{
				font:       font,
				canonical:  canonical,
				metrics:    metrics,
				hasMetrics: hasMetrics,
			}
		}
	}

	if xDict, ok := core.TraceToDirectObject(res.XObject).(*core.PdfObjectDictionary); ok {
		for _, name := range xDict.Keys() {
			stream, xtype := res.GetXObjectByName(name)
			if stream == nil {
				continue
			}
			switch xtype {
			case model.XObjectTypeImage:
				out.images[string(name)] = stream
			case model.XObjectTypeForm:
				out.forms[string(name)] = stream
			}
		}
	}

	return out
}
