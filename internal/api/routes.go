// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/docs2md/backend/internal/session"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	SessionMgr *session.Manager
	Version    string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Convert ConvertHandler
	Results ResultsHandler
	Export  ExportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.SessionMgr),
		Convert: NewConvertHandler(deps.SessionMgr),
		Results: NewResultsHandler(deps.SessionMgr),
		Export:  NewExportHandler(deps.SessionMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check and policy
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/policy", handlers.Convert.HandleGetPolicy)

	// Conversion sessions
	convertGroup := apiGroup.Group("/convert")
	convertGroup.POST("", handlers.Convert.HandleConvert)
	convertGroup.GET("/:sessionId", handlers.Convert.HandleGetSession)
	convertGroup.POST("/:sessionId/keepalive", handlers.Convert.HandleSessionKeepAlive)

	// Results
	convertGroup.GET("/:sessionId/results", handlers.Results.HandleGetResults)
	convertGroup.GET("/:sessionId/results/msgpack", handlers.Results.HandleGetResultsMsgpack)
	convertGroup.GET("/:sessionId/results/:resultId", handlers.Results.HandleGetResult)
	convertGroup.GET("/:sessionId/results/:resultId/preview", handlers.Results.HandleGetPreview)
	convertGroup.GET("/:sessionId/results/:resultId/download", handlers.Results.HandleDownloadResult)

	// Export bundle
	convertGroup.GET("/:sessionId/archive", handlers.Export.HandleDownloadArchive)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
