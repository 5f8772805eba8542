package pdf

import "math"

// PageSize is a page in millimetres.
type PageSize struct {
	Width, Height float64
}

var (
	A4     = PageSize{Width: 210, Height: 297}
	Letter = PageSize{Width: 215.9, Height: 279.4}
)

const cssDPI = 96.0

func (p PageSize) Landscape() PageSize {
	if p.Width > p.Height {
		return p
	}
	return PageSize{Width: p.Height, Height: p.Width}
}

// PixelWidth is the page width in CSS pixels, the width at which content is
// laid out before capture (794 for A4 portrait).
func (p PageSize) PixelWidth() int {
	return int(math.Round(p.Width / 25.4 * cssDPI))
}

func (p PageSize) gofpdfSize() (orientation, size string) {
	orientation = "P"
	if p.Width > p.Height {
		orientation = "L"
	}
	size = "A4"
	if p == Letter || p == Letter.Landscape() {
		size = "Letter"
	}
	return orientation, size
}
