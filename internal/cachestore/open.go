package cachestore

import (
	"fmt"
	"strings"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by backend. path is only used by sqlite.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite cache backend needs a path")
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want memory|sqlite)", backend)
	}
}
