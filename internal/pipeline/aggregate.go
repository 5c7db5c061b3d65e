package pipeline

// aggregate merges one image's per-family outcomes, given in family-registry
// order, into a single result record.
//
// Detection order is preserved exactly: families in the order given, and
// within a family the decoder's emission order. When withTimings is set the
// record carries a Timings block whose total is the sum of every family's
// initialization and detection time; the load time is reported separately
// and is not part of that total.
func aggregate(imageName string, outcomes []familyOutcome, loadMS float64, withTimings bool) Result {
	result := Result{
		Image:      imageName,
		Detections: []Detection{},
	}

	var timings *Timings
	if withTimings {
		timings = &Timings{
			ImageLoadMS:   loadMS,
			FamilyTimings: []FamilyTiming{},
		}
	}

	for _, o := range outcomes {
		result.Detections = append(result.Detections, o.detections...)
		if timings != nil {
			timings.FamilyTimings = append(timings.FamilyTimings, o.timing)
			timings.TotalDetectionMS += o.timing.InitializationMS + o.timing.DetectionMS
		}
	}

	result.Timings = timings
	return result
}
