/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */
/*
 * The embedded character metrics specified in this file are distributed under the terms listed in
 * ./testdata/afms/MustRead.html.
 */

package fonts

func init() {
	RegisterStdFont(HelveticaName, newFontHelvetica, "Arial")
	RegisterStdFont(HelveticaBoldName, newFontHelveticaBold, "Arial,Bold")
	RegisterStdFont(HelveticaObliqueName, newFontHelveticaOblique, "Arial,Italic")
	RegisterStdFont(HelveticaBoldObliqueName, newFontHelveticaBoldOblique, "Arial,BoldItalic")
}

const (
	helveticaFamily = "Helvetica"
	// HelveticaName is a PDF name of the Helvetica font.
	HelveticaName = StdFontName("Helvetica")
	// HelveticaBoldName is a PDF name of the Helvetica (bold) font.
	HelveticaBoldName = StdFontName("Helvetica-Bold")
	// HelveticaObliqueName is a PDF name of the Helvetica (oblique) font.
	HelveticaObliqueName = StdFontName("Helvetica-Oblique")
	// HelveticaBoldObliqueName is a PDF name of the Helvetica (bold, oblique) font.
	HelveticaBoldObliqueName = StdFontName("Helvetica-BoldOblique")
)

func newFontHelvetica() StdFont {
	desc := Descriptor{
		Name:        HelveticaName,
		Family:      helveticaFamily,
		Weight:      FontWeightMedium,
		Flags:       0x0020,
		BBox:        [4]float64{-166, -225, 1000, 931},
		ItalicAngle: 0,
		Ascent:      718,
		Descent:     -207,
		CapHeight:   718,
		XHeight:     523,
		StemV:       88,
		StemH:       76,
	}
	return NewStdFont(desc, asciiCharMetrics(helveticaAsciiWx))
}

func newFontHelveticaBold() StdFont {
	desc := Descriptor{
		Name:        HelveticaBoldName,
		Family:      helveticaFamily,
		Weight:      FontWeightBold,
		Flags:       0x0020,
		BBox:        [4]float64{-170, -228, 1003, 962},
		ItalicAngle: 0,
		Ascent:      718,
		Descent:     -207,
		CapHeight:   718,
		XHeight:     532,
		StemV:       140,
		StemH:       118,
	}
	return NewStdFont(desc, asciiCharMetrics(helveticaBoldAsciiWx))
}

func newFontHelveticaOblique() StdFont {
	desc := Descriptor{
		Name:        HelveticaObliqueName,
		Family:      helveticaFamily,
		Weight:      FontWeightMedium,
		Flags:       0x0060,
		BBox:        [4]float64{-170, -225, 1116, 931},
		ItalicAngle: -12,
		Ascent:      718,
		Descent:     -207,
		CapHeight:   718,
		XHeight:     523,
		StemV:       88,
		StemH:       76,
	}
	return NewStdFont(desc, asciiCharMetrics(helveticaAsciiWx))
}

func newFontHelveticaBoldOblique() StdFont {
	desc := Descriptor{
		Name:        HelveticaBoldObliqueName,
		Family:      helveticaFamily,
		Weight:      FontWeightBold,
		Flags:       0x0060,
		BBox:        [4]float64{-174, -228, 1114, 962},
		ItalicAngle: -12,
		Ascent:      718,
		Descent:     -207,
		CapHeight:   718,
		XHeight:     532,
		StemV:       140,
		StemH:       118,
	}
	return NewStdFont(desc, asciiCharMetrics(helveticaBoldAsciiWx))
}

// helveticaAsciiWx are the ASCII (0x20-0x7E) glyph widths loaded from
// afms/Helvetica.afm. See afms/MustRead.html for license information.
var helveticaAsciiWx = []int16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

// helveticaBoldAsciiWx are the ASCII (0x20-0x7E) glyph widths loaded from
// afms/Helvetica-Bold.afm. See afms/MustRead.html for license information.
var helveticaBoldAsciiWx = []int16{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}
