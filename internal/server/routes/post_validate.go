package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/metrics"
	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ValidateTableHandler validates CSV text sent as {"content": "..."} and
// returns the validation report.
func ValidateTableHandler(c echo.Context) error {
	type validateTableBody struct {
		Content string `json:"content" validate:"required"`
	}

	data := new(validateTableBody)
	if err := c.Bind(data); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(data); err != nil || strings.TrimSpace(data.Content) == "" {
		return errorJSON(c, http.StatusBadRequest, "No content provided")
	}

	start := time.Now()
	report, err := graph.ValidateTable(data.Content)
	if err != nil {
		metrics.ObserveFailure(metrics.SourceHTTP, "malformed_csv")
		return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse CSV: %v", err))
	}
	metrics.ObserveReport(metrics.SourceHTTP, report, time.Since(start))

	logger.Debug("Validated table", "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))
	return c.JSON(http.StatusOK, report)
}
