package fontmetrics

// Times family metrics, AFM-derived (Adobe Core 14 metrics, ASCII range
// 0x20-0x7E). Descriptor values and glyph widths are derived from the
// Adobe Core 14 AFM source for the Times family.

func init() {
	register(FontMetrics{
		Name: "Times-Roman", Ascent: 683, Descent: -217, CapHeight: 662, XHeight: 450,
		BBox: [4]float32{-168, -218, 1000, 898}, Flags: Serif,
		GlyphWidths: asciiWidths(timesRomanWidths),
	}, "Times")

	register(FontMetrics{
		Name: "Times-Bold", Ascent: 683, Descent: -217, CapHeight: 676, XHeight: 461,
		BBox: [4]float32{-168, -218, 1000, 935}, Flags: Serif | ForceBold,
		GlyphWidths: asciiWidths(timesBoldWidths),
	})

	register(FontMetrics{
		Name: "Times-Italic", Ascent: 683, Descent: -217, CapHeight: 653, XHeight: 441,
		BBox: [4]float32{-169, -217, 1010, 883}, ItalicAngle: -15.5, Flags: Serif | Italic,
		GlyphWidths: asciiWidths(timesItalicWidths),
	})

	register(FontMetrics{
		Name: "Times-BoldItalic", Ascent: 683, Descent: -217, CapHeight: 669, XHeight: 462,
		BBox: [4]float32{-200, -218, 996, 921}, ItalicAngle: -15, Flags: Serif | Italic | ForceBold,
		GlyphWidths: asciiWidths(timesBoldItalicWidths),
	})
}

var timesRomanWidths = [95]float32{
	250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333, 250, 278,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278, 564, 564, 564, 444,
	921, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
	556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 333, 278, 333, 469, 500,
	333, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
	500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
}

var timesBoldWidths = [95]float32{
	250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333, 250, 278,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
	930, 722, 667, 667, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
	611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 333, 278, 333, 581, 500,
	333, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
	556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
}

var timesItalicWidths = [95]float32{
	250, 333, 420, 500, 500, 833, 778, 214, 333, 333, 500, 675, 250, 333, 250, 278,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 675, 675, 675, 500,
	920, 611, 611, 667, 722, 611, 611, 722, 722, 333, 444, 667, 556, 833, 667, 722,
	611, 722, 611, 500, 556, 722, 611, 833, 611, 556, 556, 389, 278, 389, 422, 500,
	333, 500, 500, 444, 500, 444, 278, 500, 500, 278, 278, 444, 278, 722, 500, 500,
	500, 500, 389, 389, 278, 500, 444, 667, 444, 444, 389, 400, 275, 400, 541,
}

var timesBoldItalicWidths = [95]float32{
	250, 389, 555, 500, 500, 833, 778, 278, 333, 333, 500, 570, 250, 333, 250, 278,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
	832, 667, 667, 667, 722, 667, 667, 722, 778, 389, 500, 667, 611, 889, 722, 722,
	611, 722, 667, 556, 611, 722, 667, 889, 667, 611, 611, 333, 278, 333, 570, 500,
	333, 500, 500, 444, 500, 444, 333, 500, 556, 278, 278, 500, 278, 778, 556, 500,
	500, 500, 389, 389, 278, 556, 444, 667, 500, 444, 389, 348, 220, 348, 570,
}
