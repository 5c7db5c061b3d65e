// Package family defines the set of fiducial marker families the pipeline
// knows how to detect.
//
// A marker family is a codebook of valid bit patterns together with the
// geometric layout those bits occupy inside the printed tag. Each family has
// a stable string name (e.g. "tag36h11") used in all serialized output, and
// an opaque Selector token used to configure a decoder and to identify which
// family a raw detection came from.
//
// # Registry
//
// The supported families form a fixed, ordered list compiled into the
// program. Registry returns that list; there is no dynamic registration.
// NameOf resolves a Selector back to its stable name and is total over every
// registry entry — an unknown selector is an explicit error, never a silent
// default.
//
// # Layouts and Codebooks
//
// Each family carries a Layout describing its data-bit geometry: the size of
// the data area, the cell coordinates that carry bits, and the minimum
// Hamming distance separating any two valid codes. Code tables are produced
// once at startup by a seeded search (see codes.go); they are identical on
// every run, so tag IDs are stable across processes.
//
// # Rendering
//
// Render produces the canonical image of a tag (white margin, black border
// ring, data cells) for a given family and ID. The rendered geometry is the
// same geometry the decoder samples, which makes Render the ground truth for
// detector tests.
package family
