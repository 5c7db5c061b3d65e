package family

import "fmt"

// Selector is an opaque token identifying one marker family. Selectors are
// used to configure decoders and to tag raw detections; serialized output
// always uses the stable string name instead (see NameOf).
type Selector int

// Supported family selectors.
const (
	Tag36h11 Selector = iota
	Tag36h10
	Tag25h9
	Tag16h5
	TagCircle21h7
	TagCircle49h12
	TagCustom48h12
	TagStandard41h12
	TagStandard52h13
)

// Descriptor pairs a family's stable name with its selector token.
//
// Descriptors are immutable: they are constructed once at startup and shared
// read-only across every image in a batch.
type Descriptor struct {
	// Name is the stable identifier used in serialized output, e.g. "tag36h11".
	Name string

	// Selector is the token passed to the decoder for this family.
	Selector Selector
}

// registry is the fixed, ordered list of supported families. Order matters:
// detection output preserves it, and the manifest reports it verbatim.
var registry = []Descriptor{
	{Name: "tag36h11", Selector: Tag36h11},
	{Name: "tag36h10", Selector: Tag36h10},
	{Name: "tag25h9", Selector: Tag25h9},
	{Name: "tag16h5", Selector: Tag16h5},
	{Name: "tagCircle21h7", Selector: TagCircle21h7},
	{Name: "tagCircle49h12", Selector: TagCircle49h12},
	{Name: "tagCustom48h12", Selector: TagCustom48h12},
	{Name: "tagStandard41h12", Selector: TagStandard41h12},
	{Name: "tagStandard52h13", Selector: TagStandard52h13},
}

// namesBySelector is built once from the registry so that selector
// resolution is O(1) and exhaustive by construction: every registry entry
// has exactly one name here, and nothing else does.
var namesBySelector = func() map[Selector]string {
	m := make(map[Selector]string, len(registry))
	for _, d := range registry {
		m[d.Selector] = d.Name
	}
	return m
}()

// Registry returns the supported families in their fixed order.
//
// The returned slice is a copy; callers may not mutate the registry.
func Registry() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Names returns the stable names of all supported families in registry order.
func Names() []string {
	out := make([]string, len(registry))
	for i, d := range registry {
		out[i] = d.Name
	}
	return out
}

// NameOf resolves a selector to its stable family name.
//
// Resolution is total over the registry: every selector a decoder can emit
// maps to a known name. A selector outside the registry returns an error,
// never a fallback name.
func NameOf(sel Selector) (string, error) {
	name, ok := namesBySelector[sel]
	if !ok {
		return "", fmt.Errorf("unknown family selector %d", int(sel))
	}
	return name, nil
}
