package pipeline

// Corner is one quad corner in image-pixel-space boundary coordinates.
// Coordinates are not normalized and not remapped to any centered or world
// frame.
type Corner struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection is one decoded marker in a result record.
//
// Corners are ordered bottom-left, bottom-right, top-right, top-left
// (counter-clockwise starting at bottom-left), exactly as emitted by the
// decoder.
type Detection struct {
	TagID     uint16    `json:"tag_id"`
	TagFamily string    `json:"tag_family"`
	Corners   [4]Corner `json:"corners"`
}

// FamilyTiming records how long one family took on one image, split into
// the two disjoint phases of a family invocation. Values are milliseconds
// with sub-millisecond precision.
type FamilyTiming struct {
	Family           string  `json:"family"`
	InitializationMS float64 `json:"initialization_ms"`
	DetectionMS      float64 `json:"detection_ms"`
}

// Timings is the optional instrumentation block of a result record.
//
// TotalDetectionMS is the sum of every family's initialization and
// detection time for the image; ImageLoadMS measures the load phase
// separately and is not part of the total.
type Timings struct {
	ImageLoadMS      float64        `json:"image_load_ms"`
	TotalDetectionMS float64        `json:"total_detection_ms"`
	FamilyTimings    []FamilyTiming `json:"family_timings"`
}

// Result is the per-image output record.
type Result struct {
	// Image is the source file's base name, which uniquely identifies it
	// within one run.
	Image string `json:"image"`

	// Detections holds all families' detections in family-registry order;
	// within a family, decoder emission order.
	Detections []Detection `json:"detections"`

	// Timings is present only when instrumentation is enabled.
	Timings *Timings `json:"timings,omitempty"`
}

// Manifest is the run-level artifact listing the families the batch
// attempted, in registry order, independent of any per-image result.
type Manifest struct {
	SupportedFamilies []string `json:"supported_families"`
}
