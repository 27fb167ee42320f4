/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fonts

func init() {
	RegisterStdFont(SymbolName, newFontSymbol)
	RegisterStdFont(ZapfDingbatsName, newFontZapfDingbats)
}

const (
	// SymbolName is a PDF name of the Symbol font.
	SymbolName = StdFontName("Symbol")
	// ZapfDingbatsName is a PDF name of the ZapfDingbats font.
	ZapfDingbatsName = StdFontName("ZapfDingbats")

	// Per-glyph AFM widths for these symbolic encodings vary considerably
	// per code point; lacking the full tables, every code is given the
	// font's average advance. Flagged as an approximation.
	symbolWidth       = 600
	zapfDingbatsWidth = 788
)

func newFontSymbol() StdFont {
	desc := Descriptor{
		Name:        SymbolName,
		Family:      "Symbol",
		Weight:      FontWeightMedium,
		Flags:       0x0004, // Symbolic
		BBox:        [4]float64{-180, -293, 1090, 1010},
		ItalicAngle: 0,
		Ascent:      0,
		Descent:     0,
		CapHeight:   0,
		XHeight:     0,
		StemV:       0,
		StemH:       0,
	}
	return NewStdFont(desc, fixedCharMetrics(symbolWidth))
}

func newFontZapfDingbats() StdFont {
	desc := Descriptor{
		Name:        ZapfDingbatsName,
		Family:      "ZapfDingbats",
		Weight:      FontWeightMedium,
		Flags:       0x0004,
		BBox:        [4]float64{-1, -143, 981, 820},
		ItalicAngle: 0,
		Ascent:      0,
		Descent:     0,
		CapHeight:   0,
		XHeight:     0,
		StemV:       0,
		StemH:       0,
	}
	return NewStdFont(desc, fixedCharMetrics(zapfDingbatsWidth))
}
