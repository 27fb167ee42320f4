package layout

import "strconv"

func lineID(page, seq int) string  { return "line-" + strconv.Itoa(page) + "-" + strconv.Itoa(seq) }
func blockID(page, seq int) string { return "block-" + strconv.Itoa(page) + "-" + strconv.Itoa(seq) }
