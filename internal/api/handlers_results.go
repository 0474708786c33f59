// handlers_results.go - Per-result retrieval, preview and download handlers
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/docs2md/backend/internal/archive"
	"github.com/docs2md/backend/internal/convert"
	"github.com/docs2md/backend/internal/models"
	"github.com/docs2md/backend/internal/session"
)

// ResultsHandlerImpl implements the ResultsHandler interface
type ResultsHandlerImpl struct {
	sessionMgr *session.Manager
}

// NewResultsHandler creates a new results handler instance
func NewResultsHandler(sessionMgr *session.Manager) ResultsHandler {
	return &ResultsHandlerImpl{sessionMgr: sessionMgr}
}

// HandleGetResults returns the full results of a session, markdown included
func (h *ResultsHandlerImpl) HandleGetResults(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sess.Results)
}

// HandleGetResultsMsgpack returns the full results in MessagePack format.
// Noticeably smaller than JSON for markdown-heavy payloads.
func (h *ResultsHandlerImpl) HandleGetResultsMsgpack(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(sess.Results)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetResult returns one full result
func (h *ResultsHandlerImpl) HandleGetResult(c echo.Context) error {
	_, result, err := h.result(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// HandleGetPreview returns the fixed-length prefix of the converted Markdown
func (h *ResultsHandlerImpl) HandleGetPreview(c echo.Context) error {
	_, result, err := h.result(c)
	if err != nil {
		return err
	}

	previewChars := h.sessionMgr.Policy().PreviewChars
	preview := convert.Preview(result.Markdown, previewChars)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"resultId":     result.ID,
		"preview":      preview,
		"previewChars": previewChars,
		"totalChars":   len([]rune(result.Markdown)),
	})
}

// HandleDownloadResult serves one result as an attachment. The format query
// parameter selects md (default) or txt.
func (h *ResultsHandlerImpl) HandleDownloadResult(c echo.Context) error {
	sess, result, err := h.result(c)
	if err != nil {
		return err
	}

	if !result.Succeeded() {
		return NewConflictError(fmt.Sprintf("conversion failed for %s; nothing to download", result.SourceName))
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "md"
	}

	var content, mime, ext string
	switch format {
	case "md":
		content, mime, ext = result.Markdown, "text/markdown", ".md"
	case "txt":
		if !sess.PlainTextExport {
			return NewConflictError("plain-text export not enabled for this session")
		}
		content, mime, ext = result.PlainText, "text/plain", ".txt"
	default:
		return NewBadRequestError(fmt.Sprintf("unknown format: %s", format), nil)
	}

	name := archive.OutputName(result.SourceName, ext)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mime, []byte(content))
}

// helpers

func (h *ResultsHandlerImpl) session(c echo.Context) (*models.ConvertSession, error) {
	id := c.Param("sessionId")
	if id == "" {
		return nil, NewValidationError("sessionId")
	}
	sess, ok := h.sessionMgr.Get(id)
	if !ok {
		return nil, NewNotFoundError("session", id)
	}
	return sess, nil
}

func (h *ResultsHandlerImpl) result(c echo.Context) (*models.ConvertSession, *models.ConversionResult, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, nil, err
	}

	resultID := c.Param("resultId")
	if resultID == "" {
		return nil, nil, NewValidationError("resultId")
	}

	result := sess.Result(resultID)
	if result == nil {
		return nil, nil, NewNotFoundError("result", resultID)
	}
	return sess, result, nil
}
