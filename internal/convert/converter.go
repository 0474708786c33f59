// Package convert wraps the external markitdown engine behind a small
// interface. All format intelligence lives in the library; this package only
// shapes inputs and outputs.
package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	markitdown "github.com/nicholasgasior/markitdown-go"
)

// Output holds the result of one successful conversion.
type Output struct {
	Markdown  string
	Title     string
	MediaType string
}

// Converter turns raw document bytes into Markdown.
type Converter interface {
	Convert(data []byte, filename string) (*Output, error)
}

// MarkItDownConverter implements Converter using the markitdown engine.
type MarkItDownConverter struct {
	engine *markitdown.MarkItDown
}

// NewMarkItDown creates a converter backed by a markitdown instance with the
// built-in format converters enabled.
func NewMarkItDown() *MarkItDownConverter {
	return &MarkItDownConverter{
		engine: markitdown.New(),
	}
}

// Convert converts the payload to Markdown. The filename supplies the
// extension hint; the MIME type is sniffed from content.
func (c *MarkItDownConverter) Convert(data []byte, filename string) (*Output, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	media := DetectMediaType(data)

	info := markitdown.StreamInfo{
		Extension: strings.ToLower(filepath.Ext(filename)),
		Filename:  filepath.Base(filename),
		MIMEType:  media,
	}

	result, err := c.engine.ConvertReader(bytes.NewReader(data), info)
	if err != nil {
		if markitdown.IsUnsupportedFormat(err) {
			return nil, fmt.Errorf("unsupported format: %w", err)
		}
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	return &Output{
		Markdown:  strings.TrimSpace(result.Markdown),
		Title:     result.Title,
		MediaType: media,
	}, nil
}

// DetectMediaType sniffs the MIME type from content.
func DetectMediaType(data []byte) string {
	return mimetype.Detect(data).String()
}
