// handlers_results_test.go - Tests for result retrieval, preview and download
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/docs2md/backend/internal/models"
	"github.com/docs2md/backend/internal/policy"
)

// resultContext builds an echo context bound to sessionId and resultId.
func resultContext(method, target, sessionID, resultID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if resultID == "" {
		c.SetParamNames("sessionId")
		c.SetParamValues(sessionID)
	} else {
		c.SetParamNames("sessionId", "resultId")
		c.SetParamValues(sessionID, resultID)
	}
	return c, rec
}

func TestHandleGetResults(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("alpha")},
		{name: "b.txt", data: []byte("beta")},
	}, false)

	c, rec := resultContext(http.MethodGet, "/", created.ID, "")
	require.NoError(t, handlers.Results.HandleGetResults(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var results []*models.ConversionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "a.txt", results[0].SourceName)
	assert.NotEmpty(t, results[0].Markdown)
}

func TestHandleGetResultsMsgpack(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("alpha")},
	}, false)

	c, rec := resultContext(http.MethodGet, "/", created.ID, "")
	require.NoError(t, handlers.Results.HandleGetResultsMsgpack(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get(echo.HeaderContentType))

	var results []*models.ConversionResult
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "a.txt", results[0].SourceName)
	assert.NotEmpty(t, results[0].Markdown)
}

func TestHandleGetPreview_ExactPrefix(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)

	long := strings.Repeat("m", 4321)
	mock.ReturnFor("long.txt", long)

	_, created := doConvert(t, handlers, []testFile{
		{name: "long.txt", data: []byte("seed")},
	}, false)
	resultID := created.Results[0].ID

	c, rec := resultContext(http.MethodGet, "/", created.ID, resultID)
	require.NoError(t, handlers.Results.HandleGetPreview(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ResultID     string `json:"resultId"`
		Preview      string `json:"preview"`
		PreviewChars int    `json:"previewChars"`
		TotalChars   int    `json:"totalChars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resultID, resp.ResultID)
	assert.Equal(t, long[:1000], resp.Preview)
	assert.Equal(t, 1000, resp.PreviewChars)
	assert.Equal(t, 4321, resp.TotalChars)
}

func TestHandleGetPreview_ShortResult(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.ReturnFor("short.txt", "tiny")

	_, created := doConvert(t, handlers, []testFile{
		{name: "short.txt", data: []byte("seed")},
	}, false)

	c, rec := resultContext(http.MethodGet, "/", created.ID, created.Results[0].ID)
	require.NoError(t, handlers.Results.HandleGetPreview(c))

	var resp struct {
		Preview    string `json:"preview"`
		TotalChars int    `json:"totalChars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tiny", resp.Preview)
	assert.Equal(t, 4, resp.TotalChars)
}

func TestHandleDownloadResult_Markdown(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.ReturnFor("report.pdf", "# Report\n\nbody")

	_, created := doConvert(t, handlers, []testFile{
		{name: "report.pdf", data: []byte("%PDF-")},
	}, false)

	c, rec := resultContext(http.MethodGet, "/?format=md", created.ID, created.Results[0].ID)
	require.NoError(t, handlers.Results.HandleDownloadResult(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Report\n\nbody", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `"report.md"`)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/markdown")
}

func TestHandleDownloadResult_PlainText(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.ReturnFor("report.pdf", "# Report")

	_, created := doConvert(t, handlers, []testFile{
		{name: "report.pdf", data: []byte("%PDF-")},
	}, true)

	c, rec := resultContext(http.MethodGet, "/?format=txt", created.ID, created.Results[0].ID)
	require.NoError(t, handlers.Results.HandleDownloadResult(c))

	assert.Equal(t, "Report", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `"report.txt"`)
}

func TestHandleDownloadResult_PlainTextDisabled(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("a")},
	}, false)

	c, _ := resultContext(http.MethodGet, "/?format=txt", created.ID, created.Results[0].ID)
	err := handlers.Results.HandleDownloadResult(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestHandleDownloadResult_PlainTextDisabledByPolicy(t *testing.T) {
	pol := policy.Default()
	pol.PlainTextExport = false
	_, _, handlers := newTestEnv(pol)

	// The client requested plain text; the policy forbids it, so the
	// session never offers the export.
	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("a")},
	}, true)
	assert.False(t, created.PlainTextExport)

	c, _ := resultContext(http.MethodGet, "/?format=txt", created.ID, created.Results[0].ID)
	err := handlers.Results.HandleDownloadResult(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestHandleDownloadResult_FailedResult(t *testing.T) {
	_, mock, handlers := newTestEnv(nil)
	mock.FailOn("broken.xlsx", "corrupt")

	_, created := doConvert(t, handlers, []testFile{
		{name: "broken.xlsx", data: []byte("bad")},
	}, false)

	c, _ := resultContext(http.MethodGet, "/", created.ID, created.Results[0].ID)
	err := handlers.Results.HandleDownloadResult(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestHandleDownloadResult_UnknownFormat(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("a")},
	}, false)

	c, _ := resultContext(http.MethodGet, "/?format=pdf", created.ID, created.Results[0].ID)
	err := handlers.Results.HandleDownloadResult(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestHandleGetResult_NotFound(t *testing.T) {
	_, _, handlers := newTestEnv(nil)

	_, created := doConvert(t, handlers, []testFile{
		{name: "a.txt", data: []byte("a")},
	}, false)

	c, _ := resultContext(http.MethodGet, "/", created.ID, "missing")
	err := handlers.Results.HandleGetResult(c)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
