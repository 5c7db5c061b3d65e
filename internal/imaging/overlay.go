package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Quad is one detected marker outline for overlay rendering: the family it
// belongs to and its four corner points in boundary coordinates, in the
// order bottom-left, bottom-right, top-right, top-left.
type Quad struct {
	Family  string
	Corners [4][2]float64
}

// FamilyPalette assigns each family name a distinct, stable outline color.
//
// Hues are spread evenly around the color wheel in the order the names are
// given, so the same registry always produces the same palette.
func FamilyPalette(names []string) map[string]color.NRGBA {
	palette := make(map[string]color.NRGBA, len(names))
	for i, name := range names {
		hue := float64(i) * 360.0 / float64(len(names))
		c := colorful.Hsv(hue, 0.85, 0.95)
		palette[name] = color.NRGBA{
			R: uint8(math.Round(c.R * 255)),
			G: uint8(math.Round(c.G * 255)),
			B: uint8(math.Round(c.B * 255)),
			A: 255,
		}
	}
	return palette
}

// DrawDetections renders the source intensity image with each detected quad
// outlined in its family's palette color.
//
// Quads whose family is not in the palette are drawn in red; the palette is
// normally built from the full family registry, so that branch only shows
// up when a caller passes a truncated name list.
func DrawDetections(src *Intensity, quads []Quad, palette map[string]color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src.ToImage(), image.Point{}, draw.Src)

	for _, q := range quads {
		c, ok := palette[q.Family]
		if !ok {
			c = color.NRGBA{R: 255, A: 255}
		}
		for i := 0; i < 4; i++ {
			a := q.Corners[i]
			b := q.Corners[(i+1)%4]
			drawLine(out, a[0], a[1], b[0], b[1], c)
		}
	}
	return out
}

// SaveOverlay writes an overlay image to path, choosing the encoder from
// the file extension.
func SaveOverlay(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save overlay %s: %w", path, err)
	}
	return nil
}

// drawLine draws a one-pixel line between two boundary-coordinate points.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 float64, c color.NRGBA) {
	// Boundary coordinates to nearest pixel index.
	ax, ay := int(math.Round(x0-0.5)), int(math.Round(y0-0.5))
	bx, by := int(math.Round(x1-0.5)), int(math.Round(y1-0.5))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	errAcc := dx + dy

	bounds := img.Bounds()
	for {
		if image.Pt(ax, ay).In(bounds) {
			img.SetNRGBA(ax, ay, c)
		}
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			ax += sx
		}
		if e2 <= dx {
			errAcc += dx
			ay += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
