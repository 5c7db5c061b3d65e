package detect

// otsuThreshold computes a global binarization threshold from the image
// histogram by maximizing between-class variance. Pixels strictly below the
// returned value are treated as dark.
func otsuThreshold(pix []uint8) uint8 {
	var hist [256]int
	for _, v := range pix {
		hist[v]++
	}

	total := len(pix)
	var sum float64
	for v, n := range hist {
		sum += float64(v) * float64(n)
	}

	var sumBack, weightBack float64
	bestVar := -1.0
	best := 128
	for v := 0; v < 256; v++ {
		weightBack += float64(hist[v])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(v) * float64(hist[v])

		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		between := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if between > bestVar {
			bestVar = between
			best = v
		}
	}
	// Otsu picks the last value of the background class; dark is strictly
	// below the threshold, so shift by one.
	return uint8(best + 1)
}

// component is one 8-connected region of dark pixels.
type component struct {
	area int

	minX, minY int
	maxX, maxY int

	// Support pixels in the four diagonal directions. These are the pixels
	// maximizing y-x, x+y and x-y and minimizing x+y, which for a square
	// rotated less than 45° are its bottom-left, bottom-right, top-right
	// and top-left corner pixels.
	bl, br, tr, tl [2]int
}

// fillComponent grows the dark region containing the start index using an
// iterative stack-based flood fill with 8-connectivity, recording the
// region's extent and diagonal support pixels as it goes.
func (d *Decoder) fillComponent(start int) component {
	comp := component{
		minX: d.width, minY: d.height,
		maxX: -1, maxY: -1,
	}
	blScore, brScore := -1<<30, -1<<30
	trScore, tlScore := -1<<30, 1<<30

	d.stack = d.stack[:0]
	d.stack = append(d.stack, start)
	d.visited[start] = true

	for len(d.stack) > 0 {
		idx := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]

		x := idx % d.width
		y := idx / d.width
		comp.area++

		if x < comp.minX {
			comp.minX = x
		}
		if x > comp.maxX {
			comp.maxX = x
		}
		if y < comp.minY {
			comp.minY = y
		}
		if y > comp.maxY {
			comp.maxY = y
		}

		if s := y - x; s > blScore {
			blScore, comp.bl = s, [2]int{x, y}
		}
		if s := x + y; s > brScore {
			brScore, comp.br = s, [2]int{x, y}
		}
		if s := x - y; s > trScore {
			trScore, comp.tr = s, [2]int{x, y}
		}
		if s := x + y; s < tlScore {
			tlScore, comp.tl = s, [2]int{x, y}
		}

		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= d.height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx := x + dx
				if nx < 0 || nx >= d.width {
					continue
				}
				n := ny*d.width + nx
				if d.mask[n] && !d.visited[n] {
					d.visited[n] = true
					d.stack = append(d.stack, n)
				}
			}
		}
	}
	return comp
}

// quadCorners converts the component's support pixels to outer-boundary
// corner coordinates, pushing each corner half a pixel outward from the
// support centroid so an axis-aligned square spanning pixels [a,b] reports
// corners at a and b+1.
func (c *component) quadCorners() [4]Point {
	supports := [4][2]int{c.bl, c.br, c.tr, c.tl}

	var cx, cy float64
	for _, s := range supports {
		cx += float64(s[0]) + 0.5
		cy += float64(s[1]) + 0.5
	}
	cx /= 4
	cy /= 4

	var out [4]Point
	for i, s := range supports {
		x := float64(s[0]) + 0.5
		y := float64(s[1]) + 0.5
		out[i] = Point{X: x + outward(x, cx), Y: y + outward(y, cy)}
	}
	return out
}

// outward returns ±0.5 pointing away from the centroid coordinate.
func outward(v, center float64) float64 {
	if v < center {
		return -0.5
	}
	return 0.5
}
