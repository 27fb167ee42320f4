package pdfsrc

import (
	"golang.org/x/xerrors"

	"github.com/delvergo/delver/contentstream"
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/dlog"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/model"
)

var log = dlog.Named("pdf_parse")

// Document adapts model.PdfReader to the Provider interface. Its password
// handling is pass-through only: a supplied password is tried, never
// brute-forced.
type Document struct {
	reader       *model.PdfReader
	pageObjToNum map[int64]int
}

// Load parses a PDF byte stream into a Document. If the document is
// encrypted, password (may be empty) is tried against both the user and
// owner passwords; failure to decrypt is a fatal load error, the same as
// any other corrupt or unsupported PDF byte stream.
func Load(data []byte, password string) (*Document, error) {
	reader, err := model.NewPdfReader(newReadSeeker(data))
	if err != nil {
		return nil, xerrors.Errorf("pdfsrc: load: %w", err)
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, xerrors.Errorf("pdfsrc: check encryption: %w", err)
	}
	if encrypted {
		ok, err := reader.Decrypt([]byte(password))
		if err != nil {
			return nil, xerrors.Errorf("pdfsrc: decrypt: %w", err)
		}
		if !ok {
			return nil, xerrors.New("pdfsrc: decrypt: incorrect password")
		}
	}

	doc := &Document{reader: reader, pageObjToNum: map[int64]int{}}
	for i, page := range reader.PageList {
		if ind := page.GetPageAsIndirectObject(); ind != nil {
			doc.pageObjToNum[ind.ObjectNumber] = i + 1
		}
	}
	return doc, nil
}

// NumPages returns the document's page count.
func (d *Document) NumPages() int {
	return len(d.reader.PageList)
}

// Page returns the 1-based page.
func (d *Document) Page(pageNumber int) (Page, error) {
	p, err := d.reader.GetPage(pageNumber)
	if err != nil {
		log.Debug("page %d unavailable: %v", pageNumber, err)
		return nil, xerrors.Errorf("pdfsrc: page %d: %w", pageNumber, err)
	}
	return &pdfPage{pageNumber: pageNumber, page: p}, nil
}

type pdfPage struct {
	pageNumber int
	page       *model.PdfPage
}

func (p *pdfPage) PageNumber() int { return p.pageNumber }

func (p *pdfPage) MediaBox() geometry.Rect {
	box, err := p.page.GetMediaBox()
	if err != nil || box == nil {
		log.Debug("page %d: missing MediaBox, defaulting to US Letter", p.pageNumber)
		return geometry.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
	}
	return geometry.Rect{
		X0: float32(box.Llx), Y0: float32(box.Lly),
		X1: float32(box.Urx), Y1: float32(box.Ury),
	}
}

func (p *pdfPage) Rotate() int64 {
	if p.page.Rotate == nil {
		return 0
	}
	return *p.page.Rotate
}

func (p *pdfPage) ContentOperations() (*contentstream.ContentStreamOperations, error) {
	streamText, err := p.page.GetAllContentStreams()
	if err != nil {
		return nil, xerrors.Errorf("pdfsrc: page %d content stream: %w", p.pageNumber, err)
	}
	ops, err := contentstream.NewContentStreamParser(streamText).Parse()
	if err != nil {
		return nil, xerrors.Errorf("pdfsrc: page %d content stream decode: %w", p.pageNumber, err)
	}
	return ops, nil
}

func (p *pdfPage) Resources() *model.PdfPageResources {
	return p.page.Resources
}

// Destinations walks the catalog's named-destination structures - the
// legacy direct /Dests dictionary and the PDF 1.2+ Names/Dests name tree -
// and returns every destination keyed by name.
func (d *Document) Destinations() (map[string]Destination, error) {
	dests := map[string]Destination{}

	catalog, err := d.catalog()
	if err != nil {
		log.Debug("destinations: no catalog: %v", err)
		return dests, nil
	}

	if direct, ok := core.GetDict(catalog.Get("Dests")); ok {
		for _, name := range direct.Keys() {
			if dst, ok := d.parseDestValue(direct.Get(name)); ok {
				dests[string(name)] = dst
			}
		}
	}

	namesObj, err := d.reader.GetNamedDestinations()
	if err == nil && namesObj != nil {
		if namesDict, ok := core.GetDict(core.ResolveReference(namesObj)); ok {
			if destsTree, ok := core.GetDict(core.ResolveReference(namesDict.Get("Dests"))); ok {
				d.walkNameTree(destsTree, dests)
			}
		}
	}

	return dests, nil
}

// walkNameTree flattens a PDF name-tree node's /Names pairs into dests and
// recurses into /Kids children.
func (d *Document) walkNameTree(node *core.PdfObjectDictionary, dests map[string]Destination) {
	if names, ok := core.GetArray(core.ResolveReference(node.Get("Names"))); ok {
		elems := names.Elements()
		for i := 0; i+1 < len(elems); i += 2 {
			name, ok := core.GetStringVal(elems[i])
			if !ok {
				continue
			}
			if dst, ok := d.parseDestValue(elems[i+1]); ok {
				dests[name] = dst
			}
		}
	}
	if kids, ok := core.GetArray(core.ResolveReference(node.Get("Kids"))); ok {
		for _, kid := range kids.Elements() {
			if kidDict, ok := core.GetDict(core.ResolveReference(kid)); ok {
				d.walkNameTree(kidDict, dests)
			}
		}
	}
}

// parseDestValue decodes a destination value: [page_ref /XYZ x y zoom] or
// similar.
func (d *Document) parseDestValue(obj core.PdfObject) (Destination, bool) {
	arr, ok := core.GetArray(core.ResolveReference(obj))
	if !ok || arr.Len() < 1 {
		return Destination{}, false
	}
	elems := arr.Elements()

	pageNum, ok := d.pageNumberForRef(elems[0])
	if !ok {
		return Destination{}, false
	}
	dst := Destination{Page: pageNum}

	if len(elems) >= 3 {
		if x, err := core.GetNumberAsFloat(elems[2]); err == nil {
			xf := float32(x)
			dst.X = &xf
		}
	}
	if len(elems) >= 4 {
		if y, err := core.GetNumberAsFloat(elems[3]); err == nil {
			yf := float32(y)
			dst.Y = &yf
		}
	}
	return dst, true
}

func (d *Document) pageNumberForRef(obj core.PdfObject) (int, bool) {
	ref, ok := obj.(*core.PdfObjectReference)
	if !ok {
		return 0, false
	}
	n, ok := d.pageObjToNum[ref.ObjectNumber]
	return n, ok
}

func (d *Document) catalog() (*core.PdfObjectDictionary, error) {
	trailer, err := d.reader.GetTrailer()
	if err != nil {
		return nil, err
	}
	root, ok := trailer.Get("Root").(*core.PdfObjectReference)
	if !ok {
		return nil, xerrors.New("pdfsrc: trailer missing Root reference")
	}
	obj, err := d.reader.GetIndirectObjectByNumber(int(root.ObjectNumber))
	if err != nil {
		return nil, err
	}
	ind, ok := obj.(*core.PdfIndirectObject)
	if !ok {
		return nil, xerrors.New("pdfsrc: Root is not an indirect object")
	}
	catalog, ok := ind.PdfObject.(*core.PdfObjectDictionary)
	if !ok {
		return nil, xerrors.New("pdfsrc: Root does not resolve to a dictionary")
	}
	return catalog, nil
}
