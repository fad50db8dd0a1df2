package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

func GetSchemaHandler(c echo.Context) error {
	data, err := graph.MarshalSchemas(false)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to build schema")
	}
	return c.JSONBlob(http.StatusOK, data)
}
