// Package store defines the backing store interface and implementations.
//
// A store holds exactly one value: the serialized book collection. It knows
// nothing about books; callers hand it opaque bytes and get the same bytes back.
package store

import "errors"

// ErrNotPresent is returned by Load when nothing has been written yet.
var ErrNotPresent = errors.New("store: no data present")

// Store is the interface that all backing stores must implement.
type Store interface {
	// Load returns the stored content, or ErrNotPresent if none exists.
	Load() ([]byte, error)

	// Save replaces the stored content. Readers never observe a partial value.
	Save(content []byte) error
}
