// Package archive builds the download-all ZIP bundle from a session's
// conversion results.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/docs2md/backend/internal/models"
)

// Build assembles an in-memory ZIP with one Markdown entry per successful
// result, in result order. Failed conversions are excluded. When
// includePlainText is set, each entry gets a .txt sibling. Entry names are
// derived from the source filename and deduplicated with a numeric suffix.
func Build(results []*models.ConversionResult, includePlainText bool) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := newNameSet()
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}

		base := BaseName(r.SourceName)
		if err := writeEntry(zw, names.unique(base, ".md"), r.Markdown); err != nil {
			zw.Close()
			return nil, err
		}
		if includePlainText {
			if err := writeEntry(zw, names.unique(base, ".txt"), r.PlainText); err != nil {
				zw.Close()
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	return nil
}

// nameSet hands out unique archive entry names. On collision the base gets a
// numeric suffix: report.md, report-2.md, report-3.md.
type nameSet struct {
	used map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]bool)}
}

func (s *nameSet) unique(base, ext string) string {
	name := base + ext
	for n := 2; s.used[name]; n++ {
		name = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	s.used[name] = true
	return name
}
