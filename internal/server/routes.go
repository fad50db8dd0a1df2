package server

import (
	"github.com/OFFIS-RIT/famtree/backend/internal/metrics"
	"github.com/OFFIS-RIT/famtree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/famtree/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	apiRoutes := e.Group("/api")
	if app.AuthEnabled {
		apiRoutes.Use(middleware.AuthMiddleware)
	}

	// Table routes
	apiRoutes.POST("/upload", routes.UploadTableHandler)
	apiRoutes.POST("/validate", routes.ValidateTableHandler)
	apiRoutes.GET("/sample", routes.GetSampleHandler)
	apiRoutes.GET("/schema", routes.GetSchemaHandler)
}
