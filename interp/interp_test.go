package interp

import (
	"testing"

	"github.com/delvergo/delver/contentstream"
	"github.com/delvergo/delver/core"
	"github.com/delvergo/delver/fontmetrics"
	"github.com/delvergo/delver/geometry"
	"github.com/delvergo/delver/model"
	"github.com/stretchr/testify/require"
)

func op(operand string, params ...core.PdfObject) *contentstream.ContentStreamOperation {
	return &contentstream.ContentStreamOperation{Operand: operand, Params: params}
}

func num(v float64) core.PdfObject { return core.MakeFloat(v) }
func name(v string) core.PdfObject { return core.MakeName(v) }
func str(v string) core.PdfObject  { return core.MakeString(v) }

func newTimesInterpreter(t *testing.T) *pageInterpreter {
	t.Helper()
	font, err := model.NewStandard14Font(model.TimesRomanName)
	require.NoError(t, err)
	metrics, has := fontmetrics.Lookup("Times-Roman")
	require.True(t, has)

	p := &pageInterpreter{
		page:  1,
		stack: newGraphicsStack(geometry.Identity()),
		textObj: &textObjectState{},
		resources: &pageResources{
			fonts: map[string]*resolvedFont{
				"F1": {font: font, canonical: "Times-Roman", metrics: metrics, hasMetrics: has},
			},
			images: map[string]*core.PdfObjectStream{},
			forms:  map[string]*core.PdfObjectStream{},
		},
	}
	return p
}

func TestPaintStringEmitsOneTextRun(t *testing.T) {
	p := newTimesInterpreter(t)

	ops := []*contentstream.ContentStreamOperation{
		op("BT"),
		op("Tf", name("F1"), num(12)),
		op("Td", num(10), num(700)),
		op("Tj", str("Hi")),
		op("ET"),
	}
	for _, o := range ops {
		p.dispatch(o)
	}
	p.finalizeRun()

	require.Len(t, p.emitted, 1)
	run := p.emitted[0].Text
	require.NotNil(t, run)
	require.Equal(t, "Hi", run.Text)
	require.Equal(t, "Times-Roman", run.FontName)
	require.Equal(t, float32(12), run.FontSize)
	require.Greater(t, run.BBox.X1, run.BBox.X0)
}

func TestCmFinalizesPendingRun(t *testing.T) {
	p := newTimesInterpreter(t)
	p.dispatch(op("BT"))
	p.dispatch(op("Tf", name("F1"), num(10)))
	p.dispatch(op("Tj", str("A")))
	p.dispatch(op("cm", num(1), num(0), num(0), num(1), num(5), num(5)))
	p.dispatch(op("Tj", str("B")))
	p.dispatch(op("ET"))
	p.finalizeRun()

	require.Len(t, p.emitted, 2)
	require.Equal(t, "A", p.emitted[0].Text.Text)
	require.Equal(t, "B", p.emitted[1].Text.Text)
}

func TestQPopNeverEmptiesStack(t *testing.T) {
	p := newTimesInterpreter(t)
	p.dispatch(op("Q"))
	p.dispatch(op("Q"))
	require.Len(t, p.stack.frames, 1)
}

func TestTJArrayAppliesNumericAdvance(t *testing.T) {
	p := newTimesInterpreter(t)
	p.dispatch(op("BT"))
	p.dispatch(op("Tf", name("F1"), num(10)))
	before := p.textObj.textMatrix.E
	arr := core.MakeArray(num(-250))
	p.dispatch(op("TJ", arr))
	require.Greater(t, p.textObj.textMatrix.E, before)
}

func TestUnknownFontIsSkippedNotFatal(t *testing.T) {
	p := newTimesInterpreter(t)
	p.dispatch(op("BT"))
	p.dispatch(op("Tf", name("NoSuchFont"), num(10)))
	p.dispatch(op("Tj", str("x")))
	p.dispatch(op("ET"))
	p.finalizeRun()
	require.Empty(t, p.emitted)
}

func TestNormalizeContentFlipsY(t *testing.T) {
	mbox := geometry.Rect{X0: 0, Y0: 0, X1: 600, Y1: 800}
	rotateM := geometry.RotateAboutCenter(0, mbox.Width(), mbox.Height())
	_, rh := geometry.RotatedPageSize(0, mbox.Width(), mbox.Height())
	c := PageContent{Text: &TextElement{BBox: geometry.Rect{X0: 0, Y0: 700, X1: 50, Y1: 720}}}
	got := normalizeContent(c, rotateM, rh, mbox)
	require.InDelta(t, 80, got.Text.BBox.Y0, 0.001)
	require.InDelta(t, 100, got.Text.BBox.Y1, 0.001)
}
