package loader

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when file content is not valid UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file content to text. A leading UTF-8 byte order
// mark, as written by spreadsheet exports, is dropped so it cannot leak into
// the first header name. Content that is not valid UTF-8 is rejected as a
// whole.
func DecodeText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}
	return string(content), nil
}

// CacheKey generates a unique cache key for a TableFile based on its ID and path.
func CacheKey(file TableFile) string {
	return file.ID + ":" + file.FilePath
}
