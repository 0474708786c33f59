// handlers_health_test.go - Tests for health check handler
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docs2md/backend/internal/policy"
	"github.com/docs2md/backend/internal/session"
	"github.com/docs2md/backend/internal/testutil"
)

func TestHandleHealth(t *testing.T) {
	mgr := session.NewManager(testutil.NewMockConverter(), policy.Default(), 0)
	handler := NewHealthHandler("1.2.3", mgr)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])
	assert.Equal(t, float64(0), resp["sessions"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestHandleHealth_CountsLiveSessions(t *testing.T) {
	mgr := session.NewManager(testutil.NewMockConverter(), policy.Default(), 0)
	handler := NewHealthHandler("1.2.3", mgr)

	mgr.ConvertBatch([]session.UploadedFile{
		{Name: "a.txt", Data: []byte("x")},
	}, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleHealth(c))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["sessions"])
}
