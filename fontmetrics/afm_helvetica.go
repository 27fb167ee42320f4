package fontmetrics

// Helvetica family metrics, AFM-derived (Adobe Core 14 metrics, ASCII range
// 0x20-0x7E; Helvetica-Oblique/-BoldOblique reuse their upright sibling's
// widths since obliquing is a shear with no effect on advance width).

func init() {
	register(FontMetrics{
		Name: "Helvetica", Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 523,
		BBox: [4]float32{-166, -225, 1000, 931}, Flags: 0,
		GlyphWidths: asciiWidths(helveticaWidths),
	}, "Helvetica-Regular")

	register(FontMetrics{
		Name: "Helvetica-Bold", Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 532,
		BBox: [4]float32{-170, -228, 1003, 962}, Flags: ForceBold,
		GlyphWidths: asciiWidths(helveticaBoldWidths),
	})

	register(FontMetrics{
		Name: "Helvetica-Oblique", Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 523,
		BBox: [4]float32{-170, -225, 1116, 931}, ItalicAngle: -12, Flags: Italic,
		GlyphWidths: asciiWidths(helveticaWidths),
	})

	register(FontMetrics{
		Name: "Helvetica-BoldOblique", Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 532,
		BBox: [4]float32{-174, -228, 1114, 962}, ItalicAngle: -12, Flags: Italic | ForceBold,
		GlyphWidths: asciiWidths(helveticaBoldWidths),
	})
}

// asciiWidths builds a code->width map for printable ASCII (0x20-0x7E) from
// a 95-element width table, plus 0xA0 (no-break space) mirroring the space.
func asciiWidths(widths [95]float32) map[byte]float32 {
	m := make(map[byte]float32, 96)
	for i, w := range widths {
		m[byte(0x20+i)] = w
	}
	m[0xA0] = m[0x20]
	return m
}

var helveticaWidths = [95]float32{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // ! through /
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // 0-9 : ; < = > ?
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // @ A-O
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // P-Z [ \ ] ^ _
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // ` a-o
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // p-z { | } ~
}

var helveticaBoldWidths = [95]float32{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}
