package loader

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a TableFileLoader when the requested file does
// not exist at its source.
var ErrNotFound = errors.New("file not found")

type TableFileFormat string

const (
	TableFileFormatCSV TableFileFormat = "csv"
)

// TableFile describes a family table stored somewhere a TableFileLoader can
// reach, e.g. the local filesystem or an S3 bucket.
//
// The actual content is retrieved via the associated TableFileLoader.
type TableFile struct {
	ID       string
	FilePath string
	Format   TableFileFormat
	Loader   TableFileLoader
}

// NewTableFileParams defines the input parameters for creating a TableFile.
type NewTableFileParams struct {
	ID       string
	FilePath string
	Loader   TableFileLoader
}

// NewCSVTableFile creates a TableFile of format TableFileFormatCSV.
func NewCSVTableFile(params NewTableFileParams) TableFile {
	return TableFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		Format:   TableFileFormatCSV,
		Loader:   params.Loader,
	}
}

// GetBytes retrieves the raw content of the file using its Loader.
func (f *TableFile) GetBytes(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileBytes(ctx, *f)
}

// GetText retrieves the content of the file and decodes it as UTF-8 text.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if errors.Is(err, loader.ErrNotFound) {
//		// nothing stored under file.FilePath
//	}
func (f *TableFile) GetText(ctx context.Context) (string, error) {
	content, err := f.GetBytes(ctx)
	if err != nil {
		return "", err
	}
	return DecodeText(content)
}

// TableFileLoader defines the interface for loading the contents of a
// TableFile. Implementations must return an error wrapping ErrNotFound when
// the file does not exist.
type TableFileLoader interface {
	GetFileBytes(ctx context.Context, file TableFile) ([]byte, error)
}
