package family

import (
	"math"
	"math/bits"
)

// SampleMargin is the fraction of the black-to-white separation every data
// bit sample must clear the classification cut by before a decoder accepts
// a quad. Code-table generation rejects candidates another family's decoder
// would still read as a clean codeword under this margin, so the margin
// check and the tables together keep the families mutually exclusive: a
// rendered tag of one family decodes under no other family in the registry.
const SampleMargin = 0.25

// Reference geometry for the cross-family analysis: cells rendered at this
// pixel scale with the dark square one margin cell in from the origin,
// exactly the canonical rendering (see Render). Which resampled patterns
// survive the margin check depends on where bilinear samples land on the
// pixel grid, so the analysis pins the same grid the decoding contract is
// defined against.
const (
	refScale  = 10
	refOffset = refScale
)

// cellGrid lays out one code as the TotalDim×TotalDim cell intensities of
// the tag's dark square: border ring and non-bit cells black, 1-bits white.
func (l *Layout) cellGrid(code uint64) [][]float64 {
	t := l.TotalDim()
	grid := make([][]float64, t)
	for y := range grid {
		grid[y] = make([]float64, t)
	}
	bitsVec := l.BitsFromCode(code)
	for i, c := range l.Bits {
		if bitsVec[i] {
			grid[c[1]+1][c[0]+1] = 255
		}
	}
	return grid
}

// sample1D resolves a one-dimensional bilinear sample at dark-square
// position p (in cell units) into the two cells it touches and the weight
// of the second, at the reference geometry.
func sample1D(p float64, total int) (c0, c1 int, w float64) {
	px := float64(refOffset) + refScale*p - 0.5
	x0 := int(math.Floor(px))
	return cellAt(x0, total), cellAt(x0+1, total), px - math.Floor(px)
}

// cellAt maps a pixel index to its dark-square cell, clamped to the grid.
func cellAt(pixel, total int) int {
	c := (pixel - refOffset) / refScale
	if pixel < refOffset {
		c = 0
	}
	if c > total-1 {
		c = total - 1
	}
	return c
}

// resampleWord reads a tag's cell grid through another family's decoder
// geometry: one bilinear sample per decoder data cell, classified against
// the ideal cut. ok is false when any sample sits inside the margin of the
// cut, which the decoder rejects before matching.
func resampleWord(dec *Layout, grid [][]float64) (code uint64, ok bool) {
	tagTotal := len(grid)
	decTotal := float64(dec.TotalDim())
	word := make([]bool, dec.NumBits())
	for i, c := range dec.Bits {
		pu := (float64(c[0]) + 1.5) / decTotal * float64(tagTotal)
		pv := (float64(c[1]) + 1.5) / decTotal * float64(tagTotal)
		x0, x1, fx := sample1D(pu, tagTotal)
		y0, y1, fy := sample1D(pv, tagTotal)
		v := (1-fx)*(1-fy)*grid[y0][x0] + fx*(1-fy)*grid[y0][x1] +
			(1-fx)*fy*grid[y1][x0] + fx*fy*grid[y1][x1]
		if math.Abs(v-127.5) < SampleMargin*255 {
			return 0, false
		}
		word[i] = v > 127.5
	}
	return dec.CodeFromBits(word), true
}

// wordCollides reports whether some rotation of a sampled word falls within
// the decoder's correctable radius of a codebook entry.
func (l *Layout) wordCollides(word uint64, codes []uint64) bool {
	rot := l.BitsFromCode(word)
	for r := 0; r < 4; r++ {
		c := l.CodeFromBits(rot)
		for _, want := range codes {
			if bits.OnesCount64(c^want) <= l.MaxCorrectable() {
				return true
			}
		}
		rot = l.Rotate(rot)
	}
	return false
}

// crossHit reports whether an already generated family's decoder would
// accept a tag carrying the candidate pattern.
func crossHit(sel Selector, cand uint64, done map[Selector][]uint64) bool {
	grid := layouts[sel].cellGrid(cand)
	for _, prev := range generationOrder {
		if prev == sel {
			return false
		}
		pl := layouts[prev]
		if w, ok := resampleWord(pl, grid); ok && pl.wordCollides(w, done[prev]) {
			return true
		}
	}
	return false
}
