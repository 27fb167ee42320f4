package fontmetrics

// Symbol and ZapfDingbats are symbolic fonts with their own built-in
// encodings rather than WinAnsi/StandardEncoding. Per-glyph AFM widths for
// their full 256-entry encodings aren't retrievable offline here, so both
// use a single representative average advance (the AFM mean for each font)
// across their printable range - sufficient for bbox estimation, not exact
// per-glyph layout. Flagged in DESIGN.md.

func init() {
	register(FontMetrics{
		Name: "Symbol", Ascent: 0, Descent: 0, CapHeight: 0, XHeight: 0,
		BBox: [4]float32{-180, -293, 1090, 1010}, Flags: Symbolic,
		GlyphWidths: fixedWidths(symbolWidth),
	})

	register(FontMetrics{
		Name: "ZapfDingbats", Ascent: 0, Descent: 0, CapHeight: 0, XHeight: 0,
		BBox: [4]float32{-1, -143, 981, 820}, Flags: Symbolic,
		GlyphWidths: fixedWidths(zapfWidth),
	})
}

const (
	symbolWidth = 600
	zapfWidth   = 788
)
