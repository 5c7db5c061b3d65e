package detect

import (
	"math"

	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// homography is a projective map from the unit square onto a quad, with
// (0,0) at the quad's top-left corner, u increasing along the top edge
// toward the top-right corner and v increasing down the left edge toward
// the bottom-left corner.
type homography struct {
	a, b, c float64
	d, e, f float64
	g, h    float64
}

// quadHomography fits the projective map for a quad given in detection
// corner order (bottom-left, bottom-right, top-right, top-left).
func quadHomography(corners [4]Point) homography {
	p00 := corners[3] // top-left     (u,v) = (0,0)
	p10 := corners[2] // top-right    (1,0)
	p01 := corners[0] // bottom-left  (0,1)
	p11 := corners[1] // bottom-right (1,1)

	sx := p00.X - p10.X + p11.X - p01.X
	sy := p00.Y - p10.Y + p11.Y - p01.Y

	var m homography
	if math.Abs(sx) < 1e-9 && math.Abs(sy) < 1e-9 {
		// Parallelogram: the map is affine.
		m.a = p10.X - p00.X
		m.b = p01.X - p00.X
		m.d = p10.Y - p00.Y
		m.e = p01.Y - p00.Y
	} else {
		d1x, d1y := p10.X-p11.X, p10.Y-p11.Y
		d2x, d2y := p01.X-p11.X, p01.Y-p11.Y
		den := d1x*d2y - d1y*d2x

		m.g = (sx*d2y - sy*d2x) / den
		m.h = (d1x*sy - d1y*sx) / den
		m.a = p10.X - p00.X + m.g*p10.X
		m.b = p01.X - p00.X + m.h*p01.X
		m.d = p10.Y - p00.Y + m.g*p10.Y
		m.e = p01.Y - p00.Y + m.h*p01.Y
	}
	m.c = p00.X
	m.f = p00.Y
	return m
}

// mapUV projects unit-square coordinates into the image plane.
func (m homography) mapUV(u, v float64) (float64, float64) {
	w := m.g*u + m.h*v + 1
	return (m.a*u + m.b*v + m.c) / w, (m.d*u + m.e*v + m.f) / w
}

// sampleCell returns the interpolated intensity at the center of a data
// cell, where (cx, cy) are coordinates within the family's data area.
func (m homography) sampleCell(img *imaging.Intensity, cx, cy int, l *family.Layout) float64 {
	t := float64(l.TotalDim())
	u := (float64(cx) + 1.5) / t
	v := (float64(cy) + 1.5) / t
	x, y := m.mapUV(u, v)
	return bilinear(img, x, y)
}

// referenceLevels estimates the quad's black and white intensity levels.
//
// Black is sampled at the centers of the border-ring cells, which are dark
// in every valid tag; white is sampled half a cell outside the quad on all
// four sides, inside the tag's quiet zone. ok is false when no reference
// samples could be taken.
func (m homography) referenceLevels(img *imaging.Intensity, l *family.Layout) (black, white float64, ok bool) {
	t := l.TotalDim()
	tf := float64(t)

	var blackSum float64
	var blackN int
	for k := 0; k < t; k++ {
		center := (float64(k) + 0.5) / tf
		for _, uv := range [4][2]float64{
			{center, 0.5 / tf},
			{center, (tf - 0.5) / tf},
			{0.5 / tf, center},
			{(tf - 0.5) / tf, center},
		} {
			x, y := m.mapUV(uv[0], uv[1])
			blackSum += bilinear(img, x, y)
			blackN++
		}
	}

	var whiteSum float64
	var whiteN int
	for k := 0; k < t; k++ {
		center := (float64(k) + 0.5) / tf
		for _, uv := range [4][2]float64{
			{center, -0.5 / tf},
			{center, (tf + 0.5) / tf},
			{-0.5 / tf, center},
			{(tf + 0.5) / tf, center},
		} {
			x, y := m.mapUV(uv[0], uv[1])
			whiteSum += bilinear(img, x, y)
			whiteN++
		}
	}

	if blackN == 0 || whiteN == 0 {
		return 0, 0, false
	}
	return blackSum / float64(blackN), whiteSum / float64(whiteN), true
}

// bilinear interpolates the intensity at a boundary-coordinate position,
// clamping to the image edge.
func bilinear(img *imaging.Intensity, x, y float64) float64 {
	// Boundary coordinates to pixel-center space.
	px := x - 0.5
	py := y - 0.5

	px = math.Min(math.Max(px, 0), float64(img.Width-1))
	py = math.Min(math.Max(py, 0), float64(img.Height-1))

	x0 := int(px)
	y0 := int(py)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > img.Width-1 {
		x1 = img.Width - 1
	}
	if y1 > img.Height-1 {
		y1 = img.Height - 1
	}

	fx := px - float64(x0)
	fy := py - float64(y0)

	top := float64(img.At(x0, y0))*(1-fx) + float64(img.At(x1, y0))*fx
	bottom := float64(img.At(x0, y1))*(1-fx) + float64(img.At(x1, y1))*fx
	return top*(1-fy) + bottom*fy
}
