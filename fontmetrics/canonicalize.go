package fontmetrics

import "strings"

// CanonicalizeFontName normalizes a PDF font's /BaseFont name to the key
// Lookup is queried with (a base font name or a registered alias such as
// "Times"):
//  1. strip the optional 6-character subset prefix ("ABCDEF+Helvetica")
//  2. strip a trailing "PSMT", "MT" or "PS" suffix
//  3. split at the first '-'
//  4. apply the alias table
//
// Unknown fonts return the cleaned name with no alias applied; Lookup then
// reports no match and the interpreter falls back to zero glyph advances.
func CanonicalizeFontName(raw string) string {
	name := stripSubsetPrefix(raw)
	name = stripPSSuffix(name)

	base := name
	if i := strings.IndexByte(name, '-'); i >= 0 {
		base = name[:i]
	}

	if alias, ok := aliasTable[base]; ok {
		return alias
	}
	if strings.HasPrefix(base, "TimesNewRoman") {
		switch strings.TrimPrefix(base, "TimesNewRoman") {
		case "Bold":
			return "Times-Bold"
		case "Italic":
			return "Times-Italic"
		case "BoldItalic":
			return "Times-BoldItalic"
		default:
			return "Times-Roman"
		}
	}
	return base
}

// stripSubsetPrefix removes the "ABCDEF+" subset tag PDF subsetters add to
// /BaseFont names (6 uppercase letters followed by '+').
func stripSubsetPrefix(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		prefix := name[:6]
		if isUpperTag(prefix) {
			return name[7:]
		}
	}
	return name
}

func isUpperTag(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func stripPSSuffix(name string) string {
	for _, suffix := range []string{"PSMT", "MT", "PS"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// aliasTable maps non-Times variant base names onto the 14 base fonts.
var aliasTable = map[string]string{
	"Arial":                "Helvetica",
	"ArialBold":            "Helvetica-Bold",
	"ArialItalic":          "Helvetica-Oblique",
	"ArialBoldItalic":      "Helvetica-BoldOblique",
	"ArialMT":              "Helvetica",
	"CourierNew":           "Courier",
	"CourierNewBold":       "Courier-Bold",
	"CourierNewItalic":     "Courier-Oblique",
	"CourierNewBoldItalic": "Courier-BoldOblique",
}
