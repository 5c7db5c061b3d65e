package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/anthonynsimon/bild/effect"
)

// Intensity is a single-channel 8-bit image.
//
// Samples are stored row-major: the pixel at (x, y) is Pix[y*Width+x].
// A value of 0 is black and 255 is white.
type Intensity struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the sample at (x, y). Coordinates must be inside the image.
func (im *Intensity) At(x, y int) uint8 {
	return im.Pix[y*im.Width+x]
}

// Bounds returns the image extent as a standard rectangle anchored at the
// origin.
func (im *Intensity) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.Width, im.Height)
}

// LoadIntensity reads an image file and produces its intensity buffer.
//
// The file is decoded with the registered standard-library codecs (JPEG,
// PNG, GIF), converted to grayscale with a fixed luminance transform, and
// quantized to 8-bit samples. Every call produces a fresh buffer; nothing
// is cached.
//
// Returns an error if the file cannot be opened, is not a decodable image,
// or has zero area.
func LoadIntensity(path string) (*Intensity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	intensity, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return intensity, nil
}

// FromImage converts a decoded image to an intensity buffer using the same
// fixed transform as LoadIntensity. It rejects zero-area images.
func FromImage(img image.Image) (*Intensity, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("zero-area image (%dx%d)", width, height)
	}

	// Grayscale returns an RGBA image with equal channels; keep one.
	gray := effect.Grayscale(img)

	out := &Intensity{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		src := gray.Pix[gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+y):]
		dst := out.Pix[y*width:]
		for x := 0; x < width; x++ {
			dst[x] = src[x*4]
		}
	}
	return out, nil
}

// ToImage returns the buffer as a standard grayscale image. The pixel data
// is copied; mutating the result does not affect the Intensity.
func (im *Intensity) ToImage() *image.Gray {
	out := image.NewGray(im.Bounds())
	for y := 0; y < im.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+im.Width], im.Pix[y*im.Width:(y+1)*im.Width])
	}
	return out
}
