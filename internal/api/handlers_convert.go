// handlers_convert.go - Upload-and-convert batch handlers
package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/docs2md/backend/internal/convert"
	"github.com/docs2md/backend/internal/models"
	"github.com/docs2md/backend/internal/session"
)

// ConvertHandlerImpl implements the ConvertHandler interface
type ConvertHandlerImpl struct {
	sessionMgr *session.Manager
}

// NewConvertHandler creates a new convert handler instance
func NewConvertHandler(sessionMgr *session.Manager) ConvertHandler {
	return &ConvertHandlerImpl{sessionMgr: sessionMgr}
}

// HandleConvert accepts a multipart batch of files and converts each one
// synchronously, in the order presented. A per-file failure is reported in
// that file's result and never aborts the rest of the batch.
func (h *ConvertHandlerImpl) HandleConvert(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		return NewValidationError("files")
	}

	plainText, _ := strconv.ParseBool(c.FormValue("plainText"))

	files := make([]session.UploadedFile, 0, len(uploads))
	for _, fh := range uploads {
		src, err := fh.Open()
		if err != nil {
			return NewInternalError("failed to open uploaded file", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return NewInternalError("failed to read uploaded file", err)
		}
		files = append(files, session.UploadedFile{
			Name: fh.Filename,
			Data: data,
		})
	}

	sess := h.sessionMgr.ConvertBatch(files, plainText)

	return c.JSON(http.StatusCreated, summarizeSession(sess, h.sessionMgr.Policy().PreviewChars))
}

// HandleGetSession returns the summary of an existing session
func (h *ConvertHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessionMgr.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, summarizeSession(sess, h.sessionMgr.Policy().PreviewChars))
}

// HandleSessionKeepAlive refreshes a session's TTL
func (h *ConvertHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if !h.sessionMgr.Touch(id) {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleGetPolicy exposes the conversion policy so the frontend can render
// the accept list and size hints
func (h *ConvertHandlerImpl) HandleGetPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionMgr.Policy())
}

// Response types

// sessionSummary is the session view returned by the batch endpoints: result
// metadata plus previews, without the full Markdown bodies.
type sessionSummary struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	PlainTextExport bool            `json:"plainTextExport"`
	SuccessCount    int             `json:"successCount"`
	FailureCount    int             `json:"failureCount"`
	Results         []resultSummary `json:"results"`
}

type resultSummary struct {
	ID             string   `json:"id"`
	SourceName     string   `json:"sourceName"`
	MediaType      string   `json:"mediaType,omitempty"`
	Status         string   `json:"status"`
	Title          string   `json:"title,omitempty"`
	Error          string   `json:"error,omitempty"`
	Warning        string   `json:"warning,omitempty"`
	Preview        string   `json:"preview"`
	OriginalBytes  int64    `json:"originalBytes"`
	MarkdownBytes  int64    `json:"markdownBytes"`
	PlainTextBytes int64    `json:"plainTextBytes"`
	PercentSmaller *float64 `json:"percentSmaller,omitempty"`
	Deduplicated   bool     `json:"deduplicated,omitempty"`
}

func summarizeSession(sess *models.ConvertSession, previewChars int) sessionSummary {
	summary := sessionSummary{
		ID:              sess.ID,
		Status:          string(sess.Status),
		PlainTextExport: sess.PlainTextExport,
		SuccessCount:    sess.SuccessCount(),
		FailureCount:    sess.FailureCount(),
		Results:         make([]resultSummary, 0, len(sess.Results)),
	}
	for _, r := range sess.Results {
		summary.Results = append(summary.Results, summarizeResult(r, previewChars))
	}
	return summary
}

func summarizeResult(r *models.ConversionResult, previewChars int) resultSummary {
	s := resultSummary{
		ID:             r.ID,
		SourceName:     r.SourceName,
		MediaType:      r.MediaType,
		Status:         string(r.Status),
		Title:          r.Title,
		Error:          r.Error,
		Warning:        r.Warning,
		Preview:        convert.Preview(r.Markdown, previewChars),
		OriginalBytes:  r.OriginalBytes,
		MarkdownBytes:  r.MarkdownBytes,
		PlainTextBytes: r.PlainTextBytes,
		Deduplicated:   r.Deduplicated,
	}
	if pct, ok := r.PercentSmaller(); ok && r.Succeeded() {
		s.PercentSmaller = &pct
	}
	return s
}
