package interp

import (
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/fontmetrics"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/model"
)

// textState holds the text-related graphics-state parameters that survive
// across BT/ET pairs.
type textState struct {
	charSpace      float32
	wordSpace      float32
	horizontalScale float32 // Tz, stored as a fraction (operand/100)
	leading        float32
	renderMode     int64
	rise           float32

	fontName    string // canonical name, for tagging TextElements
	fontMetrics fontmetrics.FontMetrics
	hasMetrics  bool
	font        *model.PdfFont // for byte->rune decoding of simple-font strings
	size        float32
}

func newTextState() textState {
	return textState{horizontalScale: 1}
}

// graphicsState is one frame of the q/Q stack.
type graphicsState struct {
	ctm  geometry.Matrix
	text textState
}

// graphicsStack never empties on Q: popping an empty stack is a no-op.
type graphicsStack struct {
	frames []graphicsState
}

func newGraphicsStack(initial geometry.Matrix) *graphicsStack {
	return &graphicsStack{frames: []graphicsState{{ctm: initial, text: newTextState()}}}
}

func (s *graphicsStack) top() *graphicsState {
	return &s.frames[len(s.frames)-1]
}

func (s *graphicsStack) push() {
	top := *s.top()
	s.frames = append(s.frames, top)
}

func (s *graphicsStack) pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// textObjectState is the per-BT/ET buffer; inert outside a text object.
type textObjectState struct {
	active        bool
	textMatrix    geometry.Matrix
	textLineMatrix geometry.Matrix

	pendingGlyphBBoxes []geometry.Rect
	pendingText        []rune
	pendingFontName    string
	pendingFontSize    float32
	opLog              []string
}

func (t *textObjectState) reset() {
	t.active = true
	t.textMatrix = geometry.Identity()
	t.textLineMatrix = geometry.Identity()
	t.clearPending()
}

func (t *textObjectState) clearPending() {
	t.pendingGlyphBBoxes = nil
	t.pendingText = nil
	t.opLog = nil
}

func (t *textObjectState) hasPending() bool {
	return len(t.pendingGlyphBBoxes) > 0 || len(t.pendingText) > 0
}

// operand helpers shared by the operator handlers.

func operandFloat(obj core.PdfObject) (float32, bool) {
	f, err := core.GetNumberAsFloat(obj)
	if err != nil {
		return 0, false
	}
	if isNaNFloat(f) {
		return 0, false
	}
	return float32(f), true
}

func isNaNFloat(f float64) bool {
	return f != f
}
