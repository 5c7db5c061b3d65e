package pipeline

import (
	"fmt"
	"time"

	"github.com/tagvision/tagscan/internal/family"
	"github.com/tagvision/tagscan/internal/imaging"
)

// familyOutcome is the result of trying one family on one image.
type familyOutcome struct {
	descriptor family.Descriptor
	detections []Detection
	timing     FamilyTiming
}

// invokeFamily runs one family's decoder over an image and converts the raw
// detections to pipeline form, resolving each detection's family name
// through the registry.
//
// initMS is the decoder construction time attributed to this invocation;
// the detect phase is measured here, so the two phases stay disjoint.
func invokeFamily(dec Decoder, desc family.Descriptor, img *imaging.Intensity, initMS float64) (familyOutcome, error) {
	outcome := familyOutcome{
		descriptor: desc,
		detections: []Detection{},
		timing:     FamilyTiming{Family: desc.Name, InitializationMS: initMS},
	}

	start := time.Now()
	raw, err := dec.Decode(img)
	outcome.timing.DetectionMS = msSince(start)
	if err != nil {
		return outcome, fmt.Errorf("decode failed for family %s: %w", desc.Name, err)
	}

	for _, r := range raw {
		name, err := family.NameOf(r.Family)
		if err != nil {
			return outcome, fmt.Errorf("detection from family %s: %w", desc.Name, err)
		}
		det := Detection{TagID: r.ID, TagFamily: name}
		for i, c := range r.Corners {
			det.Corners[i] = Corner{X: c.X, Y: c.Y}
		}
		outcome.detections = append(outcome.detections, det)
	}
	return outcome, nil
}

// msSince returns the elapsed time since start in milliseconds, keeping
// sub-millisecond precision.
func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
