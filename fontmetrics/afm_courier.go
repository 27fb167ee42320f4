package fontmetrics

// Courier family: every glyph has the fixed 600-unit advance that defines a
// monospaced AFM font, so the width table is built by the shared helper
// rather than a literal per-glyph array like the proportional families.

func init() {
	register(FontMetrics{
		Name: "Courier", Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 426,
		BBox: [4]float32{-23, -250, 715, 805}, Flags: FixedPitch,
		GlyphWidths: fixedWidths(600),
	})

	register(FontMetrics{
		Name: "Courier-Bold", Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 439,
		BBox: [4]float32{-113, -250, 749, 801}, Flags: FixedPitch | ForceBold,
		GlyphWidths: fixedWidths(600),
	})

	register(FontMetrics{
		Name: "Courier-Oblique", Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 426,
		BBox: [4]float32{-27, -250, 849, 805}, ItalicAngle: -12, Flags: FixedPitch | Italic,
		GlyphWidths: fixedWidths(600),
	})

	register(FontMetrics{
		Name: "Courier-BoldOblique", Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 439,
		BBox: [4]float32{-57, -250, 869, 801}, ItalicAngle: -12, Flags: FixedPitch | Italic | ForceBold,
		GlyphWidths: fixedWidths(600),
	})
}

func fixedWidths(w float32) map[byte]float32 {
	m := make(map[byte]float32, 256)
	for c := 0x20; c <= 0xFF; c++ {
		m[byte(c)] = w
	}
	return m
}
