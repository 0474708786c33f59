// handlers_export.go - Download-all archive handler
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docs2md/backend/internal/archive"
	"github.com/docs2md/backend/internal/session"
)

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	sessionMgr *session.Manager
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(sessionMgr *session.Manager) ExportHandler {
	return &ExportHandlerImpl{sessionMgr: sessionMgr}
}

// HandleDownloadArchive serves a ZIP of all successful results in the
// session. Failed conversions are excluded; an assembly failure is a single
// top-level error and leaves individual downloads untouched.
func (h *ExportHandlerImpl) HandleDownloadArchive(c echo.Context) error {
	if !h.sessionMgr.Policy().ZipExport {
		return NewConflictError("zip export is disabled by policy")
	}

	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessionMgr.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := archive.Build(sess.Results, sess.PlainTextExport)
	if err != nil {
		return NewInternalError("failed to assemble archive", err)
	}

	name := fmt.Sprintf("converted_markdown_%s.zip", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/zip", data)
}
