// Package policy defines the user-tunable conversion policy: which file
// types are accepted, size thresholds, and export options. The policy lives
// in a YAML file next to the server config so operators can edit it without
// rebuilding.
package policy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy holds the conversion policy.
type Policy struct {
	// AllowedExtensions lists accepted file extensions, lowercase, without
	// leading dots.
	AllowedExtensions []string `yaml:"allowedExtensions" json:"allowedExtensions"`

	// WarnSizeMB is the soft threshold: files above it convert with a
	// warning attached. Zero disables the warning.
	WarnSizeMB int64 `yaml:"warnSizeMB" json:"warnSizeMB"`

	// HardCapMB is the hard limit: files above it are rejected per-file.
	// Zero disables the cap.
	HardCapMB int64 `yaml:"hardCapMB" json:"hardCapMB"`

	// PreviewChars is the preview prefix length in characters.
	PreviewChars int `yaml:"previewChars" json:"previewChars"`

	// PlainTextExport enables the .txt derivation alongside Markdown.
	PlainTextExport bool `yaml:"plainTextExport" json:"plainTextExport"`

	// ZipExport enables the download-all archive.
	ZipExport bool `yaml:"zipExport" json:"zipExport"`
}

// Default returns the built-in policy, matching the upstream converter's
// supported formats.
func Default() *Policy {
	return &Policy{
		AllowedExtensions: []string{
			// Office & docs
			"pdf", "docx", "pptx", "xlsx", "xls", "epub",
			// Web & text
			"html", "htm", "md", "markdown", "txt", "csv", "tsv",
			"json", "jsonl", "ipynb", "rss", "atom", "xml",
			// Images (converted when the library supports them)
			"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp",
			// Audio
			"mp3", "wav", "m4a", "ogg", "flac",
			// Archives
			"zip",
		},
		WarnSizeMB:      50,
		HardCapMB:       200,
		PreviewChars:    1000,
		PlainTextExport: true,
		ZipExport:       true,
	}
}

// Load reads the policy from a YAML file. A missing file is not an error:
// the default policy is written there and returned.
func Load(path string) (*Policy, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		p := Default()
		if err := p.Save(path); err != nil {
			return nil, fmt.Errorf("writing default policy: %w", err)
		}
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return FromReader(f)
}

// FromReader parses a policy from an io.Reader.
func FromReader(r io.Reader) (*Policy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the policy as YAML.
func (p *Policy) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p *Policy) validate() error {
	if len(p.AllowedExtensions) == 0 {
		return fmt.Errorf("policy: allowedExtensions must not be empty")
	}
	if p.PreviewChars <= 0 {
		return fmt.Errorf("policy: previewChars must be positive")
	}
	if p.HardCapMB > 0 && p.WarnSizeMB > p.HardCapMB {
		return fmt.Errorf("policy: warnSizeMB exceeds hardCapMB")
	}
	return nil
}

// Allows reports whether the filename's extension is accepted.
func (p *Policy) Allows(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range p.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// WarnSizeBytes returns the soft threshold in bytes, or 0 when disabled.
func (p *Policy) WarnSizeBytes() int64 {
	return p.WarnSizeMB * 1024 * 1024
}

// HardCapBytes returns the hard cap in bytes, or 0 when disabled.
func (p *Policy) HardCapBytes() int64 {
	return p.HardCapMB * 1024 * 1024
}
