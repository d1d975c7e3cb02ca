// Package book implements the book collection: its record type and the
// repository that enforces ISBN uniqueness and existence on top of a store.
package book

import (
	"errors"
	"fmt"
)

// Book represents a single book in the collection.
type Book struct {
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	ISBN        string  `json:"isbn"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Author      *string
	Title       *string
	ISBN        *string
	ReleaseDate *string
}

// apply merges the non-nil fields of p onto b.
func (p Patch) apply(b Book) Book {
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.ReleaseDate != nil {
		rd := *p.ReleaseDate
		b.ReleaseDate = &rd
	}
	return b
}

var (
	// ErrDuplicateRecord is returned by Create when the ISBN is already stored.
	ErrDuplicateRecord = errors.New("book already exists")

	// ErrRecordNotFound is returned when no book matches the requested ISBN,
	// including when the collection has never been written.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreIO marks failures of the underlying store.
	ErrStoreIO = errors.New("store i/o error")

	// ErrCorruptCollection is returned when the stored content is not a JSON
	// array of books. It is a kind of ErrStoreIO.
	ErrCorruptCollection = errors.New("stored collection is corrupt")
)

// StoreError wraps a failure reported by the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s collection: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes every StoreError match ErrStoreIO.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreIO
}
