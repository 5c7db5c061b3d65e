// Package detect locates and decodes square fiducial markers in intensity
// images.
//
// A Decoder is scoped to exactly one marker family and one image resolution:
// construction allocates the per-resolution scratch buffers, and Decode
// rejects images whose dimensions differ from the configured ones. Callers
// that process images of varying sizes must build a fresh decoder per image.
//
// # Detection Pipeline
//
//  1. Binarize: threshold the intensity image with Otsu's method to isolate
//     dark regions.
//  2. Segment: group dark pixels into 8-connected components with an
//     iterative flood fill, discarding regions too small to hold a tag.
//  3. Quad fit: estimate the four outer corners of each region from its
//     diagonal support points and order them counter-clockwise starting at
//     the bottom-left.
//  4. Sample: map the family's data grid through the quad's projective
//     transform, re-threshold against black-border and white-margin
//     reference samples, and read the bit pattern.
//  5. Match: compare the pattern, in all four rotations, against the
//     family's code table, correcting up to the family's correctable bit
//     budget.
//
// # Corner Order
//
// Detection corners follow a fixed geometric contract: index 0 is the
// bottom-left corner, 1 bottom-right, 2 top-right, 3 top-left —
// counter-clockwise starting at bottom-left. The order is independent of
// the tag's own orientation and is preserved verbatim by consumers.
//
// # Limitations
//
// Corner estimation from diagonal support points is exact for axis-aligned
// tags and degrades as in-plane rotation approaches 45°. Tags clipped by
// the image border, or with less contrast than the binarization threshold
// can separate, are not detected.
package detect
