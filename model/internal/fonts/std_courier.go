/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fonts

func init() {
	RegisterStdFont(CourierName, newFontCourier, "CourierNew")
	RegisterStdFont(CourierBoldName, newFontCourierBold, "CourierNew,Bold")
	RegisterStdFont(CourierObliqueName, newFontCourierOblique, "CourierNew,Italic")
	RegisterStdFont(CourierBoldObliqueName, newFontCourierBoldOblique, "CourierNew,BoldItalic")
}

const (
	courierFamily = "Courier"
	// CourierName is a PDF name of the Courier font.
	CourierName = StdFontName("Courier")
	// CourierBoldName is a PDF name of the Courier (bold) font.
	CourierBoldName = StdFontName("Courier-Bold")
	// CourierObliqueName is a PDF name of the Courier (oblique) font.
	CourierObliqueName = StdFontName("Courier-Oblique")
	// CourierBoldObliqueName is a PDF name of the Courier (bold, oblique) font.
	CourierBoldObliqueName = StdFontName("Courier-BoldOblique")

	courierWidth = 600 // Courier is fixed-pitch: every glyph is 600/1000 em.
)

func newFontCourier() StdFont {
	desc := Descriptor{
		Name:        CourierName,
		Family:      courierFamily,
		Weight:      FontWeightMedium,
		Flags:       0x0021, // FixedPitch | Nonsymbolic
		BBox:        [4]float64{-23, -250, 715, 805},
		ItalicAngle: 0,
		Ascent:      629,
		Descent:     -157,
		CapHeight:   562,
		XHeight:     426,
		StemV:       51,
		StemH:       51,
	}
	return NewStdFont(desc, fixedCharMetrics(courierWidth))
}

func newFontCourierBold() StdFont {
	desc := Descriptor{
		Name:        CourierBoldName,
		Family:      courierFamily,
		Weight:      FontWeightBold,
		Flags:       0x0021,
		BBox:        [4]float64{-113, -250, 749, 801},
		ItalicAngle: 0,
		Ascent:      629,
		Descent:     -157,
		CapHeight:   562,
		XHeight:     439,
		StemV:       106,
		StemH:       84,
	}
	return NewStdFont(desc, fixedCharMetrics(courierWidth))
}

func newFontCourierOblique() StdFont {
	desc := Descriptor{
		Name:        CourierObliqueName,
		Family:      courierFamily,
		Weight:      FontWeightMedium,
		Flags:       0x0061,
		BBox:        [4]float64{-27, -250, 849, 805},
		ItalicAngle: -12,
		Ascent:      629,
		Descent:     -157,
		CapHeight:   562,
		XHeight:     426,
		StemV:       51,
		StemH:       51,
	}
	return NewStdFont(desc, fixedCharMetrics(courierWidth))
}

func newFontCourierBoldOblique() StdFont {
	desc := Descriptor{
		Name:        CourierBoldObliqueName,
		Family:      courierFamily,
		Weight:      FontWeightBold,
		Flags:       0x0061,
		BBox:        [4]float64{-57, -250, 869, 801},
		ItalicAngle: -12,
		Ascent:      629,
		Descent:     -157,
		CapHeight:   562,
		XHeight:     439,
		StemV:       106,
		StemH:       84,
	}
	return NewStdFont(desc, fixedCharMetrics(courierWidth))
}
