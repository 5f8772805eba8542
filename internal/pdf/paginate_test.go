package pdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	const page = 297.0
	const tol = 0.3
	cases := []struct {
		name   string
		height float64
		pages  int
	}{
		{"short", 100, 1},
		{"empty", 0, 1},
		{"exactly one", page, 1},
		{"one and a pixel", page + tol/2, 1},
		{"just over one", page + 1, 2},
		{"exactly two", 2 * page, 2},
		{"two and a half", 2.5 * page, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offsets := Paginate(tc.height, page, tol)
			assert.Len(t, offsets, tc.pages)
			assert.Equal(t, tc.pages, int(math.Max(1, math.Ceil((tc.height-tol)/page))))
		})
	}
}

// Each page shows [-offset, -offset+page); together they must tile the
// content with no gap or overlap.
func TestPaginateSlicesAreContiguous(t *testing.T) {
	const page = 279.4
	offsets := Paginate(1000, page, 0.1)
	covered := 0.0
	for i, off := range offsets {
		start := -off
		assert.InDelta(t, covered, start, 1e-9, "page %d", i)
		covered = start + page
	}
	assert.GreaterOrEqual(t, covered, 1000.0)
	assert.Less(t, covered-page, 1000.0)
}

func TestPaginateZeroPage(t *testing.T) {
	assert.Equal(t, []float64{0}, Paginate(500, 0, 0))
}
