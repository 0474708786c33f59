// handlers_export_test.go - Tests for the download-all archive handler
package api

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docs2md/backend/internal/policy"
)

func archiveEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(content)
	}
	return out
}

func TestHandleDownloadArchive_SuccessesOnly(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.ReturnFor("report.pdf", "# Report")
	mock.FailOn("broken.xlsx", "corrupt workbook")

	_, created := doConvert(t, handlers, []testFile{
		{name: "report.pdf", data: []byte("%PDF-")},
		{name: "broken.xlsx", data: []byte("bad")},
	}, false)

	c, rec := resultContext(http.MethodGet, "/", created.ID, "")
	require.NoError(t, handlers.Export.HandleDownloadArchive(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	entries := archiveEntries(t, rec.Body.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "# Report", entries["report.md"])
}

func TestHandleDownloadArchive_WithPlainText(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.ReturnFor("notes.docx", "# Notes")

	_, created := doConvert(t, handlers, []testFile{
		{name: "notes.docx", data: []byte("docx bytes")},
	}, true)

	c, rec := resultContext(http.MethodGet, "/", created.ID, "")
	require.NoError(t, handlers.Export.HandleDownloadArchive(c))

	entries := archiveEntries(t, rec.Body.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "# Notes", entries["notes.md"])
	assert.Equal(t, "Notes", entries["notes.txt"])
}

func TestHandleDownloadArchive_Disabled(t *testing.T) {
	pol := policy.Default()
	pol.ZipExport = false
	_, _, handlers := newTestEnv(pol)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("a")},
	}, false)

	c, _ := resultContext(http.MethodGet, "/", created.ID, "")
	err := handlers.Export.HandleDownloadArchive(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestHandleDownloadArchive_SessionNotFound(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	c, _ := resultContext(http.MethodGet, "/", "missing", "")
	err := handlers.Export.HandleDownloadArchive(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
