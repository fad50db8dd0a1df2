package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/metrics"
	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UploadTableHandler parses a CSV family table sent as the multipart field
// "file" and returns the resulting tree.
func UploadTableHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// A part without a filename is kept as a plain form value.
		if errors.Is(err, http.ErrMissingFile) {
			if form := c.Request().MultipartForm; form != nil {
				if _, ok := form.Value["file"]; ok {
					return errorJSON(c, http.StatusBadRequest, "No file selected")
				}
			}
		}
		return errorJSON(c, http.StatusBadRequest, "No file provided")
	}
	if fileHeader.Filename == "" {
		return errorJSON(c, http.StatusBadRequest, "No file selected")
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return errorJSON(c, http.StatusBadRequest, "File must be a CSV")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Failed to read file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Failed to read file")
	}
	if len(content) == 0 {
		return errorJSON(c, http.StatusBadRequest, "File is empty")
	}

	text, err := loader.DecodeText(content)
	if err != nil {
		metrics.ObserveFailure(metrics.SourceHTTP, "invalid_encoding")
		return errorJSON(c, http.StatusBadRequest, "File must be UTF-8 encoded")
	}

	start := time.Now()
	tree, err := graph.ParseTable(text)
	if err != nil {
		metrics.ObserveFailure(metrics.SourceHTTP, "malformed_csv")
		logger.Warn("Rejected malformed upload", "file", fileHeader.Filename, "err", err)
		return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse CSV: %v", err))
	}
	metrics.ObserveTree(metrics.SourceHTTP, metrics.OperationParse, tree.Len(), tree.Relationships(), time.Since(start))

	logger.Info("Parsed uploaded table", "file", fileHeader.Filename, "people", tree.Len(), "relationships", len(tree.Relationships()))
	return treeJSON(c, tree)
}
