// mock_converter.go - Mock conversion capability for testing
package testutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docs2md/backend/internal/convert"
)

// MockConverter implements convert.Converter for testing. By default it
// echoes the payload as a markdown heading plus body; specific filenames can
// be configured to fail or to return fixed output.
type MockConverter struct {
	mu       sync.Mutex
	failures map[string]error
	outputs  map[string]string
	calls    []string
}

// NewMockConverter creates a mock converter with default behavior
func NewMockConverter() *MockConverter {
	return &MockConverter{
		failures: make(map[string]error),
		outputs:  make(map[string]string),
	}
}

// FailOn makes conversion of the given filename return an error
func (m *MockConverter) FailOn(filename string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[filename] = errors.New(reason)
}

// ReturnFor makes conversion of the given filename return fixed markdown
func (m *MockConverter) ReturnFor(filename string, markdown string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[filename] = markdown
}

// Calls returns the filenames converted so far, in call order
func (m *MockConverter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Convert implements convert.Converter
func (m *MockConverter) Convert(data []byte, filename string) (*convert.Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, filename)

	if err, ok := m.failures[filename]; ok {
		return nil, err
	}

	md, ok := m.outputs[filename]
	if !ok {
		title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		md = fmt.Sprintf("# %s\n\n%s", title, string(data))
	}

	return &convert.Output{
		Markdown:  md,
		MediaType: "text/plain; charset=utf-8",
	}, nil
}
