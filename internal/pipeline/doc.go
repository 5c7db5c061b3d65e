// Package pipeline orchestrates batch marker detection over a directory of
// images.
//
// For every eligible image in the input directory the driver loads a
// single-channel intensity buffer, runs one decoder per registered marker
// family against it, merges the per-family detections into a single result
// record, and writes that record as a JSON artifact in the output
// directory. After the image loop a manifest listing the attempted families
// is written once.
//
// # Ordering
//
// Detections in a result follow family-registry order, and within a family
// the decoder's emission order; nothing is re-sorted. Files are processed
// in directory-enumeration order, which is not guaranteed to be sorted.
//
// # Policies
//
// Behavior that varies between deployments is carried on Config rather than
// baked in: the failure policy decides whether a family's decode error
// aborts the run or records an empty result for that family, the resolution
// policy decides whether decoders are rebuilt per image or amortized across
// a batch of uniformly sized images, and the accepted extension set selects
// which files count as images.
//
// # Failure Semantics
//
// Startup problems (missing input directory, uncreatable output directory)
// and persistence problems (an unwritable result or manifest) are always
// fatal: the run never reports an image as processed without its artifact
// on disk. Image-load failures abort the run. Per-family decode failures
// follow the configured failure policy.
package pipeline
