// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health checks
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// ConvertHandler handles upload-and-convert batches and session lifecycle
type ConvertHandler interface {
	HandleConvert(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleGetPolicy(c echo.Context) error
}

// ResultsHandler handles per-result retrieval, preview and download
type ResultsHandler interface {
	HandleGetResults(c echo.Context) error
	HandleGetResultsMsgpack(c echo.Context) error
	HandleGetResult(c echo.Context) error
	HandleGetPreview(c echo.Context) error
	HandleDownloadResult(c echo.Context) error
}

// ExportHandler handles the download-all archive
type ExportHandler interface {
	HandleDownloadArchive(c echo.Context) error
}
