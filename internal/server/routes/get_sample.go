package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/metrics"
	"github.com/OFFIS-RIT/famtree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetSampleHandler returns the tree of the configured example table.
func GetSampleHandler(c echo.Context) error {
	sample := c.(*middleware.AppContext).App.Sample
	if sample.Loader == nil {
		return errorJSON(c, http.StatusNotFound, "Sample file not found")
	}

	text, err := sample.GetText(c.Request().Context())
	if errors.Is(err, loader.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "Sample file not found")
	}
	if err != nil {
		logger.Error("Failed to load sample table", "path", sample.FilePath, "err", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to load sample file")
	}

	start := time.Now()
	tree, err := graph.ParseTable(text)
	if err != nil {
		logger.Error("Sample table is malformed", "path", sample.FilePath, "err", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to parse sample file")
	}
	metrics.ObserveTree(metrics.SourceHTTP, metrics.OperationSample, tree.Len(), tree.Relationships(), time.Since(start))

	return treeJSON(c, tree)
}
