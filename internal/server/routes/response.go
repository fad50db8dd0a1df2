package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

type treeResponse struct {
	Success bool              `json:"success"`
	Data    *graph.FamilyTree `json:"data"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func treeJSON(c echo.Context, tree *graph.FamilyTree) error {
	return c.JSON(http.StatusOK, treeResponse{Success: true, Data: tree})
}
