// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docs2md/backend/internal/session"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version    string
	sessionMgr *session.Manager
	startedAt  time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessionMgr *session.Manager) HealthHandler {
	return &HealthHandlerImpl{
		version:    version,
		sessionMgr: sessionMgr,
		startedAt:  time.Now(),
	}
}

// HandleHealth reports server health plus the number of live conversion
// sessions, so an operator can see at a glance whether results are pinned
// in memory.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"sessions": h.sessionMgr.Count(),
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
	})
}
