package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// Run executes one batch: it validates the directories, processes every
// accepted image in the input directory, and writes the manifest.
//
// Files are visited in directory-enumeration order. Run returns a non-nil
// error as soon as a fatal condition is hit (see the package documentation
// for the failure taxonomy); it returns nil only if every accepted image
// was processed and the manifest was written.
func Run(cfg Config) error {
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}

	info, err := os.Stat(cfg.InputDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("input directory does not exist: %w", err)
	case err != nil:
		return fmt.Errorf("failed to stat input directory %s: %w", cfg.InputDir, err)
	case !info.IsDir():
		return fmt.Errorf("input path is not a directory: %s", cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("failed to read input directory %s: %w", cfg.InputDir, err)
	}

	b := &batch{
		cfg:    cfg,
		writer: NewWriter(cfg.OutputDir),
	}
	if cfg.Annotate {
		b.palette = imaging.FamilyPalette(descriptorNames(cfg.Families))
	}

	processed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !acceptedExtension(entry.Name(), cfg.Extensions) {
			continue
		}

		result, img, err := b.processImage(entry.Name())
		if err != nil {
			return err
		}

		fmt.Fprintf(cfg.Progress, "Writing results for %s: %d detections\n",
			result.Image, len(result.Detections))
		if err := b.writer.WriteResult(result); err != nil {
			return err
		}
		if cfg.Annotate {
			if err := b.writeOverlay(result, img); err != nil {
				return err
			}
		}
		processed++
	}

	fmt.Fprintf(cfg.Progress, "Processed %d images\n", processed)

	manifest := Manifest{SupportedFamilies: descriptorNames(cfg.Families)}
	if err := b.writer.WriteManifest(manifest); err != nil {
		return err
	}
	fmt.Fprintf(cfg.Progress, "Wrote manifest: %s\n", filepath.Join(cfg.OutputDir, manifestName))
	return nil
}

// batch carries the state of one run.
type batch struct {
	cfg     Config
	writer  *Writer
	palette map[string]color.NRGBA

	// Amortized decoders for ResolutionFixedFirst: built at first use and
	// reused for the rest of the batch. pendingInit holds each decoder's
	// construction time until the image that built it has claimed it;
	// later images report zero initialization for that family.
	decoders    map[family.Selector]Decoder
	pendingInit map[family.Selector]float64
}

// processImage runs the load → per-family → aggregate chain for one file.
// The loaded intensity buffer is returned alongside the result so overlay
// rendering does not reload the file.
func (b *batch) processImage(name string) (Result, *imaging.Intensity, error) {
	fmt.Fprintf(b.cfg.Progress, "Processing: %s\n", name)

	path := filepath.Join(b.cfg.InputDir, name)
	loadStart := time.Now()
	img, err := imaging.LoadIntensity(path)
	if err != nil {
		return Result{}, nil, err
	}
	loadMS := msSince(loadStart)

	outcomes := make([]familyOutcome, 0, len(b.cfg.Families))
	for _, desc := range b.cfg.Families {
		outcome, err := b.runFamily(desc, img)
		if err != nil {
			err = fmt.Errorf("image %s: %w", name, err)
			if b.cfg.Failure == FailAbort {
				return Result{}, nil, err
			}
			log.Printf("warning: %v; recording zero detections", err)
			outcome.detections = []Detection{}
		}
		fmt.Fprintf(b.cfg.Progress, "  Detecting %s... found %d\n",
			desc.Name, len(outcome.detections))
		outcomes = append(outcomes, outcome)
	}

	return aggregate(name, outcomes, loadMS, b.cfg.Timings), img, nil
}

// runFamily obtains a decoder for the family per the resolution policy and
// invokes it on the image.
func (b *batch) runFamily(desc family.Descriptor, img *imaging.Intensity) (familyOutcome, error) {
	empty := familyOutcome{
		descriptor: desc,
		detections: []Detection{},
		timing:     FamilyTiming{Family: desc.Name},
	}

	var dec Decoder
	var initMS float64
	switch b.cfg.Resolution {
	case ResolutionFixedFirst:
		if b.decoders == nil {
			b.decoders = make(map[family.Selector]Decoder, len(b.cfg.Families))
			b.pendingInit = make(map[family.Selector]float64, len(b.cfg.Families))
		}
		var ok bool
		if dec, ok = b.decoders[desc.Selector]; !ok {
			start := time.Now()
			built, err := b.cfg.NewDecoder(desc.Selector, img.Width, img.Height)
			if err != nil {
				return empty, fmt.Errorf("failed to build decoder for family %s: %w", desc.Name, err)
			}
			b.decoders[desc.Selector] = built
			b.pendingInit[desc.Selector] = msSince(start)
			dec = built
		}
		initMS = b.pendingInit[desc.Selector]
		b.pendingInit[desc.Selector] = 0

	default:
		start := time.Now()
		built, err := b.cfg.NewDecoder(desc.Selector, img.Width, img.Height)
		if err != nil {
			return empty, fmt.Errorf("failed to build decoder for family %s: %w", desc.Name, err)
		}
		dec = built
		initMS = msSince(start)
	}

	empty.timing.InitializationMS = initMS
	outcome, err := invokeFamily(dec, desc, img, initMS)
	if err != nil {
		empty.timing = outcome.timing
		return empty, err
	}
	return outcome, nil
}

// writeOverlay renders and saves the annotated image for one result.
func (b *batch) writeOverlay(result Result, img *imaging.Intensity) error {
	quads := make([]imaging.Quad, len(result.Detections))
	for i, det := range result.Detections {
		quads[i].Family = det.TagFamily
		for c, corner := range det.Corners {
			quads[i].Corners[c] = [2]float64{corner.X, corner.Y}
		}
	}

	overlay := imaging.DrawDetections(img, quads, b.palette)
	stem := strings.TrimSuffix(result.Image, filepath.Ext(result.Image))
	return imaging.SaveOverlay(overlay, filepath.Join(b.cfg.OutputDir, stem+"_annotated.png"))
}

// acceptedExtension reports whether a file name carries one of the accepted
// extensions, compared case-insensitively.
func acceptedExtension(name string, extensions []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func descriptorNames(descs []family.Descriptor) []string {
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names
}
