package pdf

// Paginate returns the vertical offset at which a content image of height
// contentHeight is placed on each page so that page k shows the slice
// [k*pageHeight, (k+1)*pageHeight). Overflow up to tolerance does not start
// a new page. There is always at least one page.
func Paginate(contentHeight, pageHeight, tolerance float64) []float64 {
	offsets := []float64{0}
	if pageHeight <= 0 {
		return offsets
	}
	left := contentHeight - pageHeight
	pos := 0.0
	for left > tolerance {
		pos -= pageHeight
		offsets = append(offsets, pos)
		left -= pageHeight
	}
	return offsets
}
