package store

import (
	"fmt"
	"io"
)

// Backends lists the names accepted by New.
var Backends = []string{"json", "sqlite", "bolt", "memory"}

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"json"   - JSON array in the file at path (default)
//	"sqlite" - SQLite database at path
//	"bolt"   - bbolt database at path
//	"memory" - In-memory (ephemeral, for testing)
func New(backend, path string) (Store, error) {
	switch backend {
	case "json", "":
		return NewFileStore(path)
	case "sqlite":
		return NewSqliteStore(path)
	case "bolt":
		return NewBoltStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, bolt, memory)", backend)
	}
}

// Close releases the resources held by s, if it holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
