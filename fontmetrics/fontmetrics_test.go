package fontmetrics

import "testing"

func TestCanonicalizeFontName(t *testing.T) {
	cases := map[string]string{
		"Helvetica":               "Helvetica",
		"ABCDEF+Helvetica":        "Helvetica",
		"Arial":                   "Helvetica",
		"Arial,Bold":              "Arial,Bold",
		"ArialMT":                 "Helvetica",
		"CourierNew":              "Courier",
		"Times-Roman":             "Times-Roman",
		"TimesNewRoman":           "Times-Roman",
		"TimesNewRomanBold":       "Times-Bold",
		"TimesNewRomanItalic":     "Times-Italic",
		"TimesNewRomanBoldItalic": "Times-BoldItalic",
		"HelveticaPSMT":           "Helvetica",
		"SomeUnknownFont":         "SomeUnknownFont",
	}
	for raw, want := range cases {
		got := CanonicalizeFontName(raw)
		if got != want {
			t.Errorf("CanonicalizeFontName(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLookupKnownFonts(t *testing.T) {
	for _, name := range []string{
		"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique",
		"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
		"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
		"Symbol", "ZapfDingbats",
	} {
		m, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if m.WidthForCode(' ') == 0 {
			t.Errorf("Lookup(%q).WidthForCode(' ') = 0, want nonzero", name)
		}
	}
}

func TestLookupUnknownFont(t *testing.T) {
	if _, ok := Lookup("Wingdings"); ok {
		t.Errorf("Lookup(\"Wingdings\") found, want not-found")
	}
}

func TestWidthForUnmappedCodeIsZero(t *testing.T) {
	m, _ := Lookup("Helvetica")
	if w := m.WidthForCode(0x01); w != 0 {
		t.Errorf("WidthForCode(0x01) = %v, want 0 (zero advance fallback)", w)
	}
}
