package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOTableFileLoader loads files directly from the local filesystem with caching.
// Only successful reads are cached; a missing file is looked up again on the
// next call.
type IOTableFileLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOTableFileLoader creates a new filesystem-based file loader.
func NewIOTableFileLoader() *IOTableFileLoader {
	return &IOTableFileLoader{
		cache: make(map[string][]byte),
	}
}

// GetFileBytes reads the file content from the filesystem. Results are cached.
// Callers must not modify the returned slice.
func (l *IOTableFileLoader) GetFileBytes(ctx context.Context, file loader.TableFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := os.ReadFile(file.FilePath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", file.FilePath, loader.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = content
		l.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
