package pipeline

import (
	"io"
	"os"

	"github.com/tagvision/tagscan/internal/detect"
	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// FailurePolicy selects what happens when one family's decode call fails on
// one image.
type FailurePolicy int

const (
	// FailSkip records an empty result for the failing family and
	// continues with the remaining families and images.
	FailSkip FailurePolicy = iota

	// FailAbort stops the whole run on the first family decode failure.
	FailAbort
)

// ResolutionPolicy selects how decoder instances relate to image
// resolution.
type ResolutionPolicy int

const (
	// ResolutionPerImage builds fresh decoders for every image, sized to
	// that image. Correct for batches of mixed image sizes.
	ResolutionPerImage ResolutionPolicy = iota

	// ResolutionFixedFirst sizes decoders once from the first accepted
	// image and reuses them for the whole batch, amortizing construction
	// cost. Assumes every image in the batch shares one resolution; a
	// differently sized image fails its decode calls with a dimension
	// mismatch.
	ResolutionFixedFirst
)

// Decoder is the detection capability the pipeline drives: one instance is
// scoped to a single family and a single image resolution.
type Decoder interface {
	Decode(img *imaging.Intensity) ([]detect.RawDetection, error)
}

// DecoderFactory builds a Decoder for one family at one resolution.
type DecoderFactory func(sel family.Selector, width, height int) (Decoder, error)

// Config carries everything a batch run needs.
type Config struct {
	// InputDir is the source directory. It must exist; only its direct
	// entries are considered, never subdirectories.
	InputDir string

	// OutputDir receives the per-image JSON artifacts and the manifest.
	// It is created, with missing parents, if absent.
	OutputDir string

	// Families is the ordered list of families to attempt on every image.
	Families []family.Descriptor

	// Extensions is the accepted set of file extensions, matched
	// case-insensitively and without the leading dot.
	Extensions []string

	// Failure selects the per-family decode failure policy.
	Failure FailurePolicy

	// Resolution selects the decoder construction policy.
	Resolution ResolutionPolicy

	// Timings enables per-phase latency instrumentation in the output.
	Timings bool

	// Annotate additionally writes a PNG per image with detected quads
	// outlined in family colors.
	Annotate bool

	// NewDecoder builds the decoders the run uses.
	NewDecoder DecoderFactory

	// Progress receives the per-image and per-family progress notes.
	Progress io.Writer
}

// DefaultConfig returns a Config with the full family registry, the
// standard image extensions, skip-and-continue failure handling, per-image
// decoder construction, and the built-in decoder.
func DefaultConfig() Config {
	return Config{
		Families:   family.Registry(),
		Extensions: []string{"jpg", "jpeg", "png"},
		Failure:    FailSkip,
		Resolution: ResolutionPerImage,
		NewDecoder: func(sel family.Selector, width, height int) (Decoder, error) {
			return detect.New(sel, width, height)
		},
		Progress: os.Stdout,
	}
}
