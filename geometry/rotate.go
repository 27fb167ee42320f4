package geometry

// RotateAboutCenter returns the matrix that rotates content by degrees
// clockwise about the center of a mediaBox-sized page (width x height),
// then re-translates so the rotated page's lower-left corner sits back at
// the origin. Used by the page interpreter to fold a page's /Rotate entry
// into the CTM before the top-left Y-flip. Only the PDF-legal multiples of
// 90 are meaningful; other values round to the nearest multiple of 90.
func RotateAboutCenter(degrees int64, width, height float32) Matrix {
	norm := ((degrees % 360) + 360) % 360
	switch {
	case norm >= 45 && norm < 135:
		return Matrix{A: 0, B: -1, C: 1, D: 0, E: 0, F: width}
	case norm >= 135 && norm < 225:
		return Matrix{A: -1, B: 0, C: 0, D: -1, E: width, F: height}
	case norm >= 225 && norm < 315:
		return Matrix{A: 0, B: 1, C: -1, D: 0, E: height, F: 0}
	default:
		return Identity()
	}
}

// RotatedPageSize returns the page's width/height after folding in a
// /Rotate angle, swapping axes for 90/270.
func RotatedPageSize(degrees int64, width, height float32) (float32, float32) {
	norm := ((degrees % 360) + 360) % 360
	if norm == 90 || norm == 270 {
		return height, width
	}
	return width, height
}
