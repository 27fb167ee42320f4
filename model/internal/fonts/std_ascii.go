/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fonts

// asciiCharMetrics builds a rune->CharMetrics table for the printable ASCII
// range (0x20 space through 0x7E tilde) from a 95-entry width table in AFM
// order, the convention every afms/*.afm file in this package uses.
func asciiCharMetrics(wx []int16) map[rune]CharMetrics {
	m := make(map[rune]CharMetrics, len(wx))
	for i, w := range wx {
		m[rune(0x20+i)] = CharMetrics{Wx: float64(w)}
	}
	return m
}

// fixedCharMetrics builds a rune->CharMetrics table assigning the same
// advance width to every printable ASCII code, for monospaced or
// approximated-width fonts.
func fixedCharMetrics(width int16) map[rune]CharMetrics {
	wx := make([]int16, 0x7F-0x20+1)
	for i := range wx {
		wx[i] = width
	}
	return asciiCharMetrics(wx)
}
