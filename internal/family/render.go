package family

import (
	"fmt"
	"image"
	"image/color"
)

// Render draws the canonical image of one tag.
//
// The rendered tag consists of a white margin one cell wide, a black border
// ring one cell wide, and the family's data area, with every cell drawn as a
// scale×scale pixel block. Data cells carrying a 1 bit are white; 0-bit
// cells and cells outside the family's bit set are black.
//
// For a family with data dimension D the image is (D+4)*scale pixels on a
// side and the dark square spans [scale, (D+3)*scale) on both axes.
//
// Parameters:
//   - sel: Family selector.
//   - id: Tag ID; must be within the family's code table.
//   - scale: Pixel size of one cell; must be >= 1.
//
// Returns the rendered grayscale image, or an error for an unknown
// selector, an out-of-range ID, or a non-positive scale.
func Render(sel Selector, id int, scale int) (*image.Gray, error) {
	layout, err := LayoutOf(sel)
	if err != nil {
		return nil, err
	}
	codes, err := Codes(sel)
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= len(codes) {
		name, _ := NameOf(sel)
		return nil, fmt.Errorf("tag id %d out of range for family %s (0-%d)", id, name, len(codes)-1)
	}
	if scale < 1 {
		return nil, fmt.Errorf("invalid render scale %d", scale)
	}

	total := layout.TotalDim() + 2 // dark square plus one margin cell per side
	img := image.NewGray(image.Rect(0, 0, total*scale, total*scale))

	// White margin everywhere, then the dark square over it.
	fillCells(img, 0, 0, total, total, scale, color.Gray{Y: 255})
	fillCells(img, 1, 1, total-1, total-1, scale, color.Gray{Y: 0})

	bitsVec := layout.BitsFromCode(codes[id])
	for i, c := range layout.Bits {
		if !bitsVec[i] {
			continue
		}
		// Data area starts one margin cell plus one border cell in.
		cx, cy := c[0]+2, c[1]+2
		fillCells(img, cx, cy, cx+1, cy+1, scale, color.Gray{Y: 255})
	}
	return img, nil
}

// fillCells paints the cell rectangle [x1,x2)×[y1,y2) at the given scale.
func fillCells(img *image.Gray, x1, y1, x2, y2, scale int, c color.Gray) {
	for y := y1 * scale; y < y2*scale; y++ {
		for x := x1 * scale; x < x2*scale; x++ {
			img.SetGray(x, y, c)
		}
	}
}
