package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// manifestName is the fixed, well-known name of the run-level manifest
// artifact.
const manifestName = "manifest.json"

// Writer persists result records and the manifest into one output
// directory.
//
// Each artifact is staged in a temporary file and moved into place with a
// rename, so a reader never observes a partial artifact and concurrent
// writers of distinct results do not interfere.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at the given output directory. The
// directory must already exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteResult serializes one result record as pretty-printed JSON named
// after the source image's stem: "frame_01.jpg" becomes "frame_01.json"
// (the extension is replaced, not appended).
func (w *Writer) WriteResult(res Result) error {
	stem := strings.TrimSuffix(res.Image, filepath.Ext(res.Image))
	path := filepath.Join(w.dir, stem+".json")
	return w.writeJSON(path, res)
}

// WriteManifest serializes the manifest under its fixed name.
func (w *Writer) WriteManifest(m Manifest) error {
	return w.writeJSON(filepath.Join(w.dir, manifestName), m)
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(w.dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, err = tmp.Write(append(data, '\n'))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
