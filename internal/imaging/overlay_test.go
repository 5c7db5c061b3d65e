package imaging

import (
	"os"
	"path/filepath"
	"testing"
)

func testIntensity(width, height int, value uint8) *Intensity {
	im := &Intensity{Width: width, Height: height, Pix: make([]uint8, width*height)}
	for i := range im.Pix {
		im.Pix[i] = value
	}
	return im
}

func TestFamilyPaletteStableAndDistinct(t *testing.T) {
	names := []string{"tag36h11", "tag25h9", "tag16h5"}

	first := FamilyPalette(names)
	second := FamilyPalette(names)

	if len(first) != len(names) {
		t.Fatalf("palette has %d entries, want %d", len(first), len(names))
	}
	for _, n := range names {
		if first[n] != second[n] {
			t.Errorf("palette color for %s differs between builds", n)
		}
	}
	if first["tag36h11"] == first["tag25h9"] || first["tag25h9"] == first["tag16h5"] {
		t.Error("adjacent families received identical colors")
	}
}

func TestDrawDetectionsOutlinesQuad(t *testing.T) {
	src := testIntensity(40, 40, 255)
	palette := FamilyPalette([]string{"tag36h11"})
	quads := []Quad{{
		Family: "tag36h11",
		Corners: [4][2]float64{
			{10, 30}, {30, 30}, {30, 10}, {10, 10},
		},
	}}

	out := DrawDetections(src, quads, palette)

	want := palette["tag36h11"]
	// A point on the bottom edge of the quad.
	if got := out.NRGBAAt(20, 30); got != want {
		t.Errorf("edge pixel = %v, want %v", got, want)
	}
	// Well inside the quad nothing is drawn.
	if got := out.NRGBAAt(20, 20); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("interior pixel = %v, want white", got)
	}
}

func TestDrawDetectionsUnknownFamilyFallsBackToRed(t *testing.T) {
	src := testIntensity(20, 20, 255)
	quads := []Quad{{
		Family:  "tag99h9",
		Corners: [4][2]float64{{2, 18}, {18, 18}, {18, 2}, {2, 2}},
	}}

	out := DrawDetections(src, quads, FamilyPalette([]string{"tag36h11"}))

	got := out.NRGBAAt(10, 18)
	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("fallback edge pixel = %v, want red", got)
	}
}

func TestSaveOverlay(t *testing.T) {
	src := testIntensity(16, 16, 128)
	out := DrawDetections(src, nil, nil)

	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := SaveOverlay(out, path); err != nil {
		t.Fatalf("SaveOverlay: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("overlay file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("overlay file is empty")
	}
}

func TestSaveOverlayUnwritableDestination(t *testing.T) {
	src := testIntensity(8, 8, 0)
	out := DrawDetections(src, nil, nil)

	err := SaveOverlay(out, filepath.Join(t.TempDir(), "missing", "deep", "overlay.png"))
	if err == nil {
		t.Error("saving into a missing directory did not return an error")
	}
}
