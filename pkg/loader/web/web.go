package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"

	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// WebTableFileLoader downloads family tables over HTTP(S). The FilePath of a
// TableFile is the URL. Successful downloads are cached for the lifetime of
// the loader.
type WebTableFileLoader struct {
	client *http.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewWebTableFileLoader creates a loader using http.DefaultClient.
func NewWebTableFileLoader() *WebTableFileLoader {
	return NewWebTableFileLoaderWithClient(http.DefaultClient)
}

// NewWebTableFileLoaderWithClient creates a loader with a custom client,
// e.g. one with a timeout.
func NewWebTableFileLoaderWithClient(client *http.Client) *WebTableFileLoader {
	return &WebTableFileLoader{
		client: client,
		cache:  make(map[string][]byte),
	}
}

// GetFileBytes fetches the URL. A 404 maps to loader.ErrNotFound; HTML
// responses are rejected since they are never a table.
func (l *WebTableFileLoader) GetFileBytes(ctx context.Context, file loader.TableFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.FilePath, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", file.FilePath, loader.ErrNotFound)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, fmt.Errorf("failed to fetch url %s: status %d", file.FilePath, resp.StatusCode)
		}

		if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mediaType == "text/html" {
			return nil, fmt.Errorf("%s returned an HTML page, not a table", file.FilePath)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		l.cacheMu.Lock()
		l.cache[key] = data
		l.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
