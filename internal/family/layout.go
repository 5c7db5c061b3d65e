package family

import "fmt"

// Layout describes the data-bit geometry of one family.
//
// A printed tag consists of, from the outside in: a white margin one cell
// wide, a black border ring one cell wide, and a Dim×Dim data area. Not
// every data cell carries a bit — the circle and standard families exclude
// corner cells — so the carrying cells are listed explicitly in Bits.
//
// The bit-coordinate set is closed under 90° rotation, which is what makes
// rotation-invariant decoding possible (see Rotate).
type Layout struct {
	// Dim is the side length of the data area in cells.
	Dim int

	// Bits lists the {x, y} data-area coordinates that carry a bit, in
	// row-major order. Bit i of a code (counting from the most significant
	// of NumBits) lives at Bits[i].
	Bits [][2]int

	// MinHamming is the minimum Hamming distance between any two valid
	// codes of the family, across all rotations.
	MinHamming int

	// rot maps bit index i to the index its cell occupies after rotating
	// the tag 90°.
	rot []int
}

// NumBits returns the number of data bits in the family's pattern.
func (l *Layout) NumBits() int { return len(l.Bits) }

// MaxCorrectable returns the number of bit errors the decoder may correct
// while still identifying codes unambiguously.
func (l *Layout) MaxCorrectable() int { return (l.MinHamming - 1) / 2 }

// TotalDim returns the side length of the dark square in cells: the data
// area plus the one-cell border ring on each side.
func (l *Layout) TotalDim() int { return l.Dim + 2 }

// Rotate returns the bit vector of the same tag after a 90° rotation.
// The input is indexed by bit position (see Bits) and is not modified.
func (l *Layout) Rotate(bits []bool) []bool {
	out := make([]bool, len(bits))
	for i, b := range bits {
		out[l.rot[i]] = b
	}
	return out
}

// newLayout builds a layout for a Dim×Dim data area, skipping the excluded
// cells. It panics if the resulting bit set is not closed under rotation;
// layouts are package-level constants, so this is a startup-time check of
// the tables below, not a runtime error path.
func newLayout(dim, minHamming int, excluded [][2]int) *Layout {
	skip := make(map[[2]int]bool, len(excluded))
	for _, c := range excluded {
		skip[c] = true
	}

	l := &Layout{Dim: dim, MinHamming: minHamming}
	index := make(map[[2]int]int)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			c := [2]int{x, y}
			if skip[c] {
				continue
			}
			index[c] = len(l.Bits)
			l.Bits = append(l.Bits, c)
		}
	}

	l.rot = make([]int, len(l.Bits))
	for i, c := range l.Bits {
		rotated := [2]int{dim - 1 - c[1], c[0]}
		j, ok := index[rotated]
		if !ok {
			panic(fmt.Sprintf("family layout dim=%d: bit set not closed under rotation at %v", dim, c))
		}
		l.rot[i] = j
	}
	return l
}

// cornerNotches returns the cells removed from each corner of a dim×dim
// data area. depth selects the notch shape: 1 removes the corner cell,
// 2 adds the edge cell clockwise of it, 3 adds both adjacent edge cells.
// All three shapes are closed under rotation.
func cornerNotches(dim, depth int) [][2]int {
	base := [][2]int{{0, 0}}
	if depth >= 2 {
		base = append(base, [2]int{1, 0})
	}
	if depth >= 3 {
		base = append(base, [2]int{0, 1})
	}

	var out [][2]int
	for _, c := range base {
		x, y := c[0], c[1]
		out = append(out,
			[2]int{x, y},
			[2]int{dim - 1 - y, x},
			[2]int{dim - 1 - x, dim - 1 - y},
			[2]int{y, dim - 1 - x},
		)
	}
	return out
}

var layouts = map[Selector]*Layout{
	Tag36h11:         newLayout(6, 11, nil),
	Tag36h10:         newLayout(6, 10, nil),
	Tag25h9:          newLayout(5, 9, nil),
	Tag16h5:          newLayout(4, 5, nil),
	TagCircle21h7:    newLayout(5, 7, cornerNotches(5, 1)),
	TagCircle49h12:   newLayout(7, 12, nil),
	TagCustom48h12:   newLayout(7, 12, [][2]int{{3, 3}}),
	TagStandard41h12: newLayout(7, 12, cornerNotches(7, 2)),
	TagStandard52h13: newLayout(8, 13, cornerNotches(8, 3)),
}

// LayoutOf returns the data-bit layout for a family selector.
func LayoutOf(sel Selector) (*Layout, error) {
	l, ok := layouts[sel]
	if !ok {
		return nil, fmt.Errorf("unknown family selector %d", int(sel))
	}
	return l, nil
}
