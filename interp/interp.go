package interp

import (
	"strconv"
	"sync"

	"github.com/delvergo/delver/config"
	"github.com/delvergo/delver/contentstream"
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/dlog"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/pdfsrc"
	"github.com/h2non/filetype"
	"golang.org/x/xerrors"
)

var log = dlog.Named("pdf_text_object")

// ProcessPages interprets every page of provider, in parallel up to
// cfg.MaxWorkers, and returns one []PageContent per page in ascending
// page order. Pages do not share mutable state; per-page result lists
// are collected in page order before indexing.
func ProcessPages(provider pdfsrc.Provider, cfg config.Config) ([][]PageContent, error) {
	n := provider.NumPages()
	results := make([][]PageContent, n)
	errs := make([]error, n)

	sem := make(chan struct{}, cfg.MaxWorkers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		pageNumber := i + 1
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, pageNumber int) {
			defer wg.Done()
			defer func() { <-sem }()
			page, err := provider.Page(pageNumber)
			if err != nil {
				errs[idx] = xerrors.Errorf("pdf_parse: page %d: %w", pageNumber, err)
				return
			}
			content, err := processPage(page)
			if err != nil {
				errs[idx] = xerrors.Errorf("pdf_parse: page %d: %w", pageNumber, err)
				return
			}
			results[idx] = content
		}(i, pageNumber)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// processPage runs the operator loop for one page and normalizes every
// resulting bbox into top-left page coordinates.
func processPage(page pdfsrc.Page) ([]PageContent, error) {
	ops, err := page.ContentOperations()
	if err != nil {
		return nil, xerrors.Errorf("undecodable content stream: %w", err)
	}

	res := resolveResources(log, page.Resources())

	mbox := page.MediaBox()
	rotate := page.Rotate()
	interpreter := &pageInterpreter{
		page:      page.PageNumber(),
		resources: res,
		stack:     newGraphicsStack(geometry.Identity()),
		textObj:   &textObjectState{},
	}

	for _, op := range *ops {
		interpreter.dispatch(op)
	}
	// Final flush: the last BT/ET pair may not have closed cleanly in a
	// malformed stream.
	interpreter.finalizeRun()

	rotateM := geometry.RotateAboutCenter(rotate, mbox.Width(), mbox.Height())
	_, rotatedHeight := geometry.RotatedPageSize(rotate, mbox.Width(), mbox.Height())
	out := make([]PageContent, 0, len(interpreter.emitted))
	for _, c := range interpreter.emitted {
		out = append(out, normalizeContent(c, rotateM, rotatedHeight, mbox))
	}
	return out, nil
}

// normalizeContent shifts a bbox into the media box's local origin, applies
// the page's rotate-about-center transform, then flips Y about the (possibly
// rotated) page's top edge so the result is top-left page coordinates.
func normalizeContent(c PageContent, rotateM geometry.Matrix, rotatedHeight float32, mbox geometry.Rect) PageContent {
	flip := func(r geometry.Rect) geometry.Rect {
		local := geometry.Rect{X0: r.X0 - mbox.X0, Y0: r.Y0 - mbox.Y0, X1: r.X1 - mbox.X0, Y1: r.Y1 - mbox.Y0}
		rotated := geometry.TransformRect(local, rotateM)
		y0, y1 := rotatedHeight-rotated.Y1, rotatedHeight-rotated.Y0
		rotated.Y0, rotated.Y1 = y0, y1
		return rotated
	}
	if c.Text != nil {
		t := *c.Text
		t.BBox = flip(t.BBox)
		c.Text = &t
	}
	if c.Image != nil {
		im := *c.Image
		im.BBox = flip(im.BBox)
		c.Image = &im
	}
	return c
}

// pageInterpreter holds the mutable state of one page's operator loop.
type pageInterpreter struct {
	page      int
	resources *pageResources
	stack     *graphicsStack
	textObj   *textObjectState
	emitted   []PageContent
	runSeq    int
	imgSeq    int
}

func (p *pageInterpreter) dispatch(op *contentstream.ContentStreamOperation) {
	gs := p.stack.top()
	switch op.Operand {
	case "q":
		p.stack.push()
	case "Q":
		p.stack.pop()
	case "cm":
		p.finalizeRun()
		m, ok := matrixOperand(op.Params)
		if !ok {
			log.Debug("page %d: cm: bad operands", p.page)
			return
		}
		gs.ctm = geometry.Mul(m, gs.ctm)
	case "BT":
		p.textObj.reset()
	case "ET":
		p.finalizeRun()
		p.textObj.active = false
	case "Tf":
		p.finalizeRun()
		p.opTf(op.Params)
	case "Tc":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.charSpace = v
		}
	case "Tw":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.wordSpace = v
		}
	case "Tz":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.horizontalScale = v / 100
		}
	case "TL":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.leading = v
		}
	case "Tr":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.renderMode = int64(v)
		}
	case "Ts":
		if v, ok := floatOperand(op.Params, 0); ok {
			gs.text.rise = v
		}
	case "Tm":
		p.finalizeRun()
		m, ok := matrixOperand(op.Params)
		if !ok {
			log.Debug("page %d: Tm: bad operands", p.page)
			return
		}
		p.textObj.textMatrix = m
		p.textObj.textLineMatrix = m
	case "Td":
		p.opTd(op.Params, false)
	case "TD":
		p.opTd(op.Params, true)
	case "T*":
		p.textObj.textLineMatrix = geometry.PreTranslate(p.textObj.textLineMatrix, 0, -gs.text.leading)
		p.textObj.textMatrix = p.textObj.textLineMatrix
	case "Tj":
		p.opShowString(op.Params, 0)
	case "'":
		p.textObj.textLineMatrix = geometry.PreTranslate(p.textObj.textLineMatrix, 0, -gs.text.leading)
		p.textObj.textMatrix = p.textObj.textLineMatrix
		p.opShowString(op.Params, 0)
	case `"`:
		if len(op.Params) >= 2 {
			if aw, ok := operandFloat(op.Params[0]); ok {
				gs.text.wordSpace = aw
			}
			if ac, ok := operandFloat(op.Params[1]); ok {
				gs.text.charSpace = ac
			}
		}
		p.textObj.textLineMatrix = geometry.PreTranslate(p.textObj.textLineMatrix, 0, -gs.text.leading)
		p.textObj.textMatrix = p.textObj.textLineMatrix
		p.opShowString(op.Params, 2)
	case "TJ":
		p.opShowArray(op.Params)
	case "Do":
		p.finalizeRun()
		p.opDo(op.Params)
	}
}

func (p *pageInterpreter) opTf(params []core.PdfObject) {
	if len(params) < 2 {
		log.Debug("page %d: Tf: expected 2 operands, got %d", p.page, len(params))
		return
	}
	name, ok := core.GetNameVal(params[0])
	if !ok {
		log.Debug("page %d: Tf: operand 0 not a name", p.page)
		return
	}
	size, ok := operandFloat(params[1])
	if !ok {
		log.Debug("page %d: Tf: operand 1 not numeric", p.page)
		return
	}
	gs := p.stack.top()
	gs.text.size = size
	rf, has := p.resources.fonts[name]
	if !has {
		log.Debug("page %d: Tf: unknown font /%s", p.page, name)
		gs.text.font = nil
		gs.text.hasMetrics = false
		gs.text.fontName = name
		return
	}
	gs.text.font = rf.font
	gs.text.fontName = rf.canonical
	gs.text.fontMetrics = rf.metrics
	gs.text.hasMetrics = rf.hasMetrics
}

func (p *pageInterpreter) opTd(params []core.PdfObject, isTD bool) {
	p.finalizeRun()
	tx, okx := floatOperand(params, 0)
	ty, oky := floatOperand(params, 1)
	if !okx || !oky {
		log.Debug("page %d: Td/TD: bad operands", p.page)
		return
	}
	p.textObj.textLineMatrix = geometry.PreTranslate(p.textObj.textLineMatrix, tx, ty)
	p.textObj.textMatrix = p.textObj.textLineMatrix
	if isTD {
		p.stack.top().text.leading = -ty
	}
}

// opShowString handles Tj and the string operand of '/"; skip skips leading
// numeric operands already consumed by '/" for word/char spacing.
func (p *pageInterpreter) opShowString(params []core.PdfObject, skip int) {
	if len(params) <= skip {
		return
	}
	str, ok := params[skip].(*core.PdfObjectString)
	if !ok {
		log.Debug("page %d: show-string: operand not a string", p.page)
		return
	}
	p.paintString(str.Bytes())
}

func (p *pageInterpreter) opShowArray(params []core.PdfObject) {
	if len(params) == 0 {
		return
	}
	arr, ok := core.GetArray(params[0])
	if !ok {
		log.Debug("page %d: TJ: operand not an array", p.page)
		return
	}
	gs := p.stack.top()
	for _, elem := range arr.Elements() {
		switch v := elem.(type) {
		case *core.PdfObjectString:
			p.paintString(v.Bytes())
		default:
			if n, ok := operandFloat(elem); ok {
				adv := -n * gs.text.size / 1000 * gs.text.horizontalScale
				p.textObj.textMatrix = geometry.PreTranslate(p.textObj.textMatrix, adv, 0)
			}
		}
	}
}

// paintString runs the glyph-painting algorithm over one PDF string
// operand's decoded character codes.
func (p *pageInterpreter) paintString(data []byte) {
	gs := p.stack.top()
	p.textObj.active = true
	p.textObj.pendingFontName = gs.text.fontName
	p.textObj.pendingFontSize = gs.text.size
	p.textObj.opLog = append(p.textObj.opLog, "Tj")

	if gs.text.font == nil {
		// No font resolved: nothing is painted and the text matrix is not
		// advanced.
		return
	}

	codes := gs.text.font.BytesToCharcodes(data)
	decoded, _, _ := gs.text.font.CharcodeBytesToUnicode(data)
	decodedRunes := []rune(decoded)

	ascent, descent := float32(1), float32(0)
	if gs.text.hasMetrics {
		ascent = gs.text.fontMetrics.Ascent / 1000
		descent = gs.text.fontMetrics.Descent / 1000
	}

	for i, code := range codes {
		w := float32(0)
		if gs.text.hasMetrics {
			w = gs.text.fontMetrics.WidthForCode(byte(code)) / 1000
		}
		tsm := geometry.Matrix{
			A: gs.text.size * gs.text.horizontalScale,
			D: gs.text.size,
			F: gs.text.rise,
		}
		trm := geometry.Mul(tsm, geometry.Mul(p.textObj.textMatrix, gs.ctm))
		glyphRect := geometry.Rect{X0: 0, Y0: descent, X1: w, Y1: ascent}
		bbox := geometry.TransformRect(glyphRect, trm)
		p.textObj.pendingGlyphBBoxes = append(p.textObj.pendingGlyphBBoxes, bbox)

		adv := w*gs.text.size + gs.text.charSpace
		if code == 0x20 {
			adv += gs.text.wordSpace
		}
		adv *= gs.text.horizontalScale
		p.textObj.textMatrix = geometry.PreTranslate(p.textObj.textMatrix, adv, 0)

		if i < len(decodedRunes) {
			p.textObj.pendingText = append(p.textObj.pendingText, decodedRunes[i])
		}
	}
	// Ligature expansion etc. can make decodedRunes longer than codes; append
	// whatever is left so no text is silently dropped.
	if len(decodedRunes) > len(codes) {
		p.textObj.pendingText = append(p.textObj.pendingText, decodedRunes[len(codes):]...)
	}
}

// finalizeRun closes out any in-progress text run as a PageContent::Text
// whenever the current run's geometry or styling is about to change.
func (p *pageInterpreter) finalizeRun() {
	if p.textObj == nil || !p.textObj.hasPending() {
		return
	}
	var bbox geometry.Rect
	for i, b := range p.textObj.pendingGlyphBBoxes {
		if i == 0 {
			bbox = b
			continue
		}
		bbox = bbox.Union(b)
	}
	p.runSeq++
	el := &TextElement{
		ID:       textElementID(p.page, p.runSeq),
		Text:     string(p.textObj.pendingText),
		FontSize: p.textObj.pendingFontSize,
		FontName: p.textObj.pendingFontName,
		BBox:     bbox,
		Page:     p.page,
		OpLog:    append([]string(nil), p.textObj.opLog...),
	}
	p.emitted = append(p.emitted, PageContent{Text: el})
	p.textObj.clearPending()
}

func (p *pageInterpreter) opDo(params []core.PdfObject) {
	if len(params) == 0 {
		return
	}
	name, ok := core.GetNameVal(params[0])
	if !ok {
		log.Debug("page %d: Do: operand not a name", p.page)
		return
	}
	stream, has := p.resources.images[name]
	if !has {
		if _, isForm := p.resources.forms[name]; isForm {
			// Form XObjects are not recursed into: out of scope for the
			// baseline interpreter (no nested content-stream execution).
			return
		}
		log.Debug("page %d: Do: unknown XObject /%s", p.page, name)
		return
	}
	gs := p.stack.top()
	unitSquare := geometry.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	bbox := geometry.TransformRect(unitSquare, gs.ctm)

	format := ""
	if raw, err := core.DecodeStream(stream); err == nil {
		if kind, err := filetype.Match(raw); err == nil && kind != filetype.Unknown {
			format = kind.Extension
		}
	}

	p.imgSeq++
	p.emitted = append(p.emitted, PageContent{Image: &ImageElement{
		ID:     imageElementID(p.page, p.imgSeq),
		Page:   p.page,
		BBox:   bbox,
		Format: format,
		Object: stream,
	}})
}

func matrixOperand(params []core.PdfObject) (geometry.Matrix, bool) {
	if len(params) < 6 {
		return geometry.Matrix{}, false
	}
	vals := make([]float32, 6)
	for i := 0; i < 6; i++ {
		v, ok := operandFloat(params[i])
		if !ok {
			return geometry.Matrix{}, false
		}
		vals[i] = v
	}
	return geometry.Matrix{A: vals[0], B: vals[1], C: vals[2], D: vals[3], E: vals[4], F: vals[5]}, true
}

func floatOperand(params []core.PdfObject, idx int) (float32, bool) {
	if idx >= len(params) {
		return 0, false
	}
	return operandFloat(params[idx])
}

func textElementID(page, seq int) string {
	return idString("t", page, seq)
}

func imageElementID(page, seq int) string {
	return idString("i", page, seq)
}

func idString(prefix string, page, seq int) string {
	return prefix + "-" + strconv.Itoa(page) + "-" + strconv.Itoa(seq)
}
