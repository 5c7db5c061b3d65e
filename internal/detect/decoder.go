package detect

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// Point is a position in boundary coordinates: pixel (x, y) spans the unit
// square from (x, y) to (x+1, y+1).
type Point struct {
	X float64
	Y float64
}

// RawDetection is one decoded marker as reported by a Decoder.
type RawDetection struct {
	// ID is the tag's index in its family's code table.
	ID uint16

	// Family is the selector of the family the decoder was built for.
	Family family.Selector

	// Corners holds the outer corners of the tag's dark square:
	// 0 bottom-left, 1 bottom-right, 2 top-right, 3 top-left
	// (counter-clockwise starting at bottom-left).
	Corners [4]Point
}

// minContrast is the smallest black-to-white reference separation, in
// intensity levels, at which a quad is still considered decodable.
const minContrast = 30

// Decoder detects markers of a single family at a fixed image resolution.
//
// A Decoder is not safe for concurrent use: Decode reuses the scratch
// buffers allocated at construction time.
type Decoder struct {
	sel    family.Selector
	layout *family.Layout
	codes  []uint64

	width  int
	height int

	// Scratch buffers, sized width*height at construction.
	mask    []bool
	visited []bool
	stack   []int
}

// New builds a decoder for one family at the given resolution.
//
// Construction resolves the family's layout and code table and allocates
// the detection scratch buffers, so it is not free; batch callers that know
// their images share a resolution may reuse one decoder across images.
func New(sel family.Selector, width, height int) (*Decoder, error) {
	layout, err := family.LayoutOf(sel)
	if err != nil {
		return nil, err
	}
	codes, err := family.Codes(sel)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid decoder resolution %dx%d", width, height)
	}

	return &Decoder{
		sel:     sel,
		layout:  layout,
		codes:   codes,
		width:   width,
		height:  height,
		mask:    make([]bool, width*height),
		visited: make([]bool, width*height),
	}, nil
}

// Decode finds all markers of the decoder's family in the image.
//
// The image dimensions must match the resolution the decoder was built for.
// Detections are emitted in scan order (top-to-bottom, left-to-right by the
// position of each region's first pixel), which makes output deterministic
// for a given image.
func (d *Decoder) Decode(img *imaging.Intensity) ([]RawDetection, error) {
	if img.Width != d.width || img.Height != d.height {
		return nil, fmt.Errorf("image size %dx%d does not match decoder resolution %dx%d",
			img.Width, img.Height, d.width, d.height)
	}

	threshold := otsuThreshold(img.Pix)
	for i, v := range img.Pix {
		d.mask[i] = v < threshold
		d.visited[i] = false
	}

	// A tag's dark square is at least the border plus data area on a side.
	minSide := d.layout.TotalDim()
	minArea := minSide * minSide

	var detections []RawDetection
	for start := range d.mask {
		if !d.mask[start] || d.visited[start] {
			continue
		}
		comp := d.fillComponent(start)
		if comp.area < minArea {
			continue
		}
		if comp.maxX-comp.minX+1 < minSide || comp.maxY-comp.minY+1 < minSide {
			continue
		}

		corners := comp.quadCorners()
		if det, ok := d.decodeQuad(img, corners); ok {
			detections = append(detections, det)
		}
	}
	return detections, nil
}

// decodeQuad samples the bit grid inside a candidate quad and matches it
// against the family's code table. ok is false when the quad does not hold
// a decodable tag of this family.
func (d *Decoder) decodeQuad(img *imaging.Intensity, corners [4]Point) (RawDetection, bool) {
	h := quadHomography(corners)

	black, white, ok := h.referenceLevels(img, d.layout)
	if !ok || white-black < minContrast {
		return RawDetection{}, false
	}
	cut := (black + white) / 2

	// Every bit sample must clear the cut decisively. A tag of one family
	// resampled under another family's cell geometry lands samples on cell
	// boundaries, where the interpolated value hugs the cut; a genuine tag
	// samples solid cell interiors and clears it by half the contrast.
	margin := family.SampleMargin * (white - black)
	bitsVec := make([]bool, d.layout.NumBits())
	for i, c := range d.layout.Bits {
		sample := h.sampleCell(img, c[0], c[1], d.layout)
		if math.Abs(sample-cut) < margin {
			return RawDetection{}, false
		}
		bitsVec[i] = sample > cut
	}

	bestDist := d.layout.NumBits() + 1
	bestID := -1
	rotated := bitsVec
	for r := 0; r < 4; r++ {
		code := d.layout.CodeFromBits(rotated)
		for id, want := range d.codes {
			if dist := bits.OnesCount64(code ^ want); dist < bestDist {
				bestDist = dist
				bestID = id
			}
		}
		rotated = d.layout.Rotate(rotated)
	}

	if bestID < 0 || bestDist > d.layout.MaxCorrectable() {
		return RawDetection{}, false
	}
	return RawDetection{
		ID:      uint16(bestID),
		Family:  d.sel,
		Corners: corners,
	}, true
}
