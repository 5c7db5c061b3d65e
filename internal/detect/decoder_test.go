package detect

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// renderIntensity renders one tag and converts it to an intensity buffer.
func renderIntensity(t *testing.T, sel family.Selector, id, scale int) *imaging.Intensity {
	t.Helper()
	img, err := family.Render(sel, id, scale)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	im, err := imaging.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	return im
}

func TestDecodeSingleTagCornersAndID(t *testing.T) {
	// tag36h11 at scale 10: 100x100 image, dark square spanning [10,90).
	im := renderIntensity(t, family.Tag36h11, 5, 10)

	dec, err := New(family.Tag36h11, im.Width, im.Height)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dets, err := dec.Decode(im)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}

	want := RawDetection{
		ID:     5,
		Family: family.Tag36h11,
		Corners: [4]Point{
			{X: 10, Y: 90}, // bottom-left
			{X: 90, Y: 90}, // bottom-right
			{X: 90, Y: 10}, // top-right
			{X: 10, Y: 10}, // top-left
		},
	}
	if diff := cmp.Diff(want, dets[0]); diff != "" {
		t.Errorf("detection mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEveryFamilyRoundTrip(t *testing.T) {
	for _, d := range family.Registry() {
		im := renderIntensity(t, d.Selector, 2, 8)

		dec, err := New(d.Selector, im.Width, im.Height)
		if err != nil {
			t.Fatalf("%s: New: %v", d.Name, err)
		}
		dets, err := dec.Decode(im)
		if err != nil {
			t.Fatalf("%s: Decode: %v", d.Name, err)
		}
		if len(dets) != 1 {
			t.Errorf("%s: got %d detections, want 1", d.Name, len(dets))
			continue
		}
		if dets[0].ID != 2 {
			t.Errorf("%s: decoded id %d, want 2", d.Name, dets[0].ID)
		}
		if dets[0].Family != d.Selector {
			t.Errorf("%s: detection carries selector %v, want %v", d.Name, dets[0].Family, d.Selector)
		}
	}
}

func TestDecodeIgnoresOtherFamilies(t *testing.T) {
	// A tag must decode under its own family only. Resampling one family's
	// pattern through another family's cell geometry can land within the
	// second codebook's correctable radius (tag16h5 corrects two bits of a
	// sixteen-bit word), so this guards the margin check and the
	// cross-family table separation together.
	for _, tag := range family.Registry() {
		im := renderIntensity(t, tag.Selector, 5, 10)

		for _, d := range family.Registry() {
			dec, err := New(d.Selector, im.Width, im.Height)
			if err != nil {
				t.Fatalf("%s: New: %v", d.Name, err)
			}
			dets, err := dec.Decode(im)
			if err != nil {
				t.Fatalf("%s on %s tag: Decode: %v", d.Name, tag.Name, err)
			}

			if d.Selector == tag.Selector {
				if len(dets) != 1 || dets[0].ID != 5 {
					t.Errorf("%s: own tag decoded as %+v, want single detection with id 5", d.Name, dets)
				}
				continue
			}
			for _, det := range dets {
				t.Errorf("%s decoder accepted %s tag as id %d", d.Name, tag.Name, det.ID)
			}
		}
	}
}

func TestDecodeRotatedTag(t *testing.T) {
	im := renderIntensity(t, family.Tag25h9, 7, 10)

	// Rotate the image 90° clockwise; the tag ID must survive and the
	// corners stay in geometric order.
	rot := &imaging.Intensity{Width: im.Height, Height: im.Width, Pix: make([]uint8, len(im.Pix))}
	for y := 0; y < rot.Height; y++ {
		for x := 0; x < rot.Width; x++ {
			rot.Pix[y*rot.Width+x] = im.At(y, im.Height-1-x)
		}
	}

	dec, err := New(family.Tag25h9, rot.Width, rot.Height)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dets, err := dec.Decode(rot)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}
	if dets[0].ID != 7 {
		t.Errorf("decoded id %d, want 7", dets[0].ID)
	}

	c := dets[0].Corners
	if !(c[0].Y > c[3].Y && c[1].X > c[0].X) {
		t.Errorf("corners not in bottom-left, bottom-right, top-right, top-left order: %v", c)
	}
}

func TestDecodeToleratesBitErrors(t *testing.T) {
	img, err := family.Render(family.Tag36h11, 5, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Invert one data cell: data area starts two cells in, so cell (0,0)
	// spans pixels [20,30) on both axes. One flipped cell is one bit error,
	// well inside the family's correctable budget.
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.SetGray(x, y, invertGray(img.GrayAt(x, y)))
		}
	}

	im, err := imaging.FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := New(family.Tag36h11, im.Width, im.Height)
	if err != nil {
		t.Fatal(err)
	}
	dets, err := dec.Decode(im)
	if err != nil {
		t.Fatal(err)
	}
	if len(dets) != 1 || dets[0].ID != 5 {
		t.Fatalf("corrupted tag decoded as %+v, want single detection with id 5", dets)
	}
}

func TestDecodeMultipleTagsScanOrder(t *testing.T) {
	left, err := family.Render(family.Tag16h5, 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	right, err := family.Render(family.Tag16h5, 9, 10)
	if err != nil {
		t.Fatal(err)
	}

	canvas := image.NewGray(image.Rect(0, 0, 180, 80))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}
	draw.Draw(canvas, image.Rect(0, 0, 80, 80), left, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(100, 0, 180, 80), right, image.Point{}, draw.Src)

	im, err := imaging.FromImage(canvas)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := New(family.Tag16h5, im.Width, im.Height)
	if err != nil {
		t.Fatal(err)
	}
	dets, err := dec.Decode(im)
	if err != nil {
		t.Fatal(err)
	}
	if len(dets) != 2 {
		t.Fatalf("got %d detections, want 2", len(dets))
	}
	if dets[0].ID != 3 || dets[1].ID != 9 {
		t.Errorf("detections out of scan order: ids %d, %d, want 3, 9", dets[0].ID, dets[1].ID)
	}
}

func TestDecodeBlankImage(t *testing.T) {
	im := &imaging.Intensity{Width: 60, Height: 60, Pix: make([]uint8, 3600)}
	for i := range im.Pix {
		im.Pix[i] = 255
	}

	dec, err := New(family.Tag36h11, 60, 60)
	if err != nil {
		t.Fatal(err)
	}
	dets, err := dec.Decode(im)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("blank image produced %d detections", len(dets))
	}
}

func TestDecodeDeterministic(t *testing.T) {
	im := renderIntensity(t, family.Tag36h11, 11, 10)

	dec, err := New(family.Tag36h11, im.Width, im.Height)
	if err != nil {
		t.Fatal(err)
	}
	first, err := dec.Decode(im)
	if err != nil {
		t.Fatal(err)
	}
	second, err := dec.Decode(im)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated decodes differ (-first +second):\n%s", diff)
	}
}

func TestDecodeDimensionMismatch(t *testing.T) {
	dec, err := New(family.Tag36h11, 100, 100)
	if err != nil {
		t.Fatal(err)
	}

	im := &imaging.Intensity{Width: 50, Height: 50, Pix: make([]uint8, 2500)}
	if _, err := dec.Decode(im); err == nil {
		t.Error("decoding a mismatched image size did not return an error")
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	if _, err := New(family.Selector(999), 100, 100); err == nil {
		t.Error("unknown selector accepted")
	}
	if _, err := New(family.Tag36h11, 0, 100); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := New(family.Tag36h11, 100, -5); err == nil {
		t.Error("negative height accepted")
	}
}

func invertGray(c color.Gray) color.Gray {
	return color.Gray{Y: 255 - c.Y}
}
