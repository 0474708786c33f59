package archive

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// BaseName derives a safe output base name from an uploaded filename: the
// extension is dropped, spaces become underscores, and anything outside
// [A-Za-z0-9._-] is removed. Falls back to "converted" when nothing is left.
func BaseName(sourceName string) string {
	stem := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	stem = strings.ReplaceAll(strings.TrimSpace(stem), " ", "_")
	stem = unsafeChars.ReplaceAllString(stem, "")
	if stem == "" {
		return "converted"
	}
	return stem
}

// OutputName returns the download filename for a result, e.g. "report.md".
func OutputName(sourceName, ext string) string {
	return BaseName(sourceName) + ext
}
