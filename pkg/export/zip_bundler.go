package export

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// BundleEntry is a single named file inside a ZIP bundle.
type BundleEntry struct {
	Name string
	Data []byte
}

// ZIPBundler assembles in-memory ZIP archives.
type ZIPBundler struct{}

// NewZIPBundler constructs a ZIP bundler.
func NewZIPBundler() *ZIPBundler {
	return &ZIPBundler{}
}

// Bundle writes the entries into a ZIP archive and returns its bytes.
// Entries with an empty name are skipped.
func (b *ZIPBundler) Bundle(entries []BundleEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("zip requires at least one entry")
	}
	buf := &bytes.Buffer{}
	writer := zip.NewWriter(buf)
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		w, err := writer.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", entry.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
