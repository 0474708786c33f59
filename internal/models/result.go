package models

import "time"

// ResultStatus represents the outcome of converting one uploaded file.
type ResultStatus string

const (
	ResultStatusConverted ResultStatus = "converted"
	ResultStatusFailed    ResultStatus = "failed"
)

// ConversionResult holds the outcome of converting a single uploaded file.
// Exactly one result exists per source file, in upload order.
type ConversionResult struct {
	ID         string       `json:"id" msgpack:"id"`
	SourceName string       `json:"sourceName" msgpack:"sourceName"`
	MediaType  string       `json:"mediaType,omitempty" msgpack:"mediaType"`
	Status     ResultStatus `json:"status" msgpack:"status"`

	// Markdown is the full converted text. Empty when Status is failed.
	Markdown string `json:"markdown,omitempty" msgpack:"markdown"`
	// PlainText is the Markdown with formatting markers stripped.
	PlainText string `json:"plainText,omitempty" msgpack:"plainText"`
	// Title is the document title when the converter could extract one.
	Title string `json:"title,omitempty" msgpack:"title"`

	// Error holds the per-file failure reason. A failed file never aborts
	// the rest of the batch.
	Error string `json:"error,omitempty" msgpack:"error"`
	// Warning holds a non-fatal notice, e.g. the soft size threshold.
	Warning string `json:"warning,omitempty" msgpack:"warning"`

	// OriginalBytes is the size of the uploaded payload.
	OriginalBytes int64 `json:"originalBytes" msgpack:"originalBytes"`
	// MarkdownBytes and PlainTextBytes are UTF-8 sizes of the outputs.
	MarkdownBytes  int64 `json:"markdownBytes" msgpack:"markdownBytes"`
	PlainTextBytes int64 `json:"plainTextBytes" msgpack:"plainTextBytes"`

	// Deduplicated is true when this payload matched an earlier upload in
	// the same session and the cached result was reused.
	Deduplicated bool `json:"deduplicated,omitempty" msgpack:"deduplicated"`

	ConvertedAt time.Time `json:"convertedAt" msgpack:"convertedAt"`
}

// Succeeded reports whether the conversion produced usable Markdown.
func (r *ConversionResult) Succeeded() bool {
	return r.Status == ResultStatusConverted
}

// PercentSmaller returns how much smaller the plain-text output is than the
// original upload, clamped to [-100, 100]. Returns false when the original
// size is zero.
func (r *ConversionResult) PercentSmaller() (float64, bool) {
	if r.OriginalBytes <= 0 {
		return 0, false
	}
	pct := (1.0 - float64(r.PlainTextBytes)/float64(r.OriginalBytes)) * 100.0
	if pct > 100 {
		pct = 100
	}
	if pct < -100 {
		pct = -100
	}
	return pct, true
}
