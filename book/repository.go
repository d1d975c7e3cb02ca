package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/stevemurr/bookshelf/store"
)

// Repository provides create/read/update/delete over the whole collection.
//
// Every mutation loads the full collection, computes the next one and saves it
// back. Mutations are serialized by mu so that two concurrent writers cannot
// both start from the same snapshot and lose one of the changes. Reads do not
// take mu; the store guarantees they see a complete collection.
type Repository struct {
	mu    sync.Mutex
	store store.Store
}

// NewRepository creates a Repository backed by s.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// load returns the stored collection. present is false when nothing has been
// written yet; that is not an error.
func (r *Repository) load() (books []Book, present bool, err error) {
	raw, err := r.store.Load()
	if errors.Is(err, store.ErrNotPresent) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{Op: "load", Err: err}
	}
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, false, &StoreError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrCorruptCollection, err)}
	}
	if books == nil {
		books = []Book{}
	}
	return books, true, nil
}

func (r *Repository) save(books []Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return &StoreError{Op: "encode", Err: err}
	}
	if err := r.store.Save(raw); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

func indexOf(books []Book, isbn string) int {
	for i, b := range books {
		if b.ISBN == isbn {
			return i
		}
	}
	return -1
}

// Create appends candidate to the collection.
// The caller is responsible for trimming and validating its fields.
func (r *Repository) Create(candidate Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, _, err := r.load()
	if err != nil {
		return err
	}
	if indexOf(books, candidate.ISBN) >= 0 {
		return ErrDuplicateRecord
	}
	return r.save(append(books, candidate))
}

// ReadAll returns every stored book in insertion order. It returns
// ErrRecordNotFound if the collection has never been written; an empty
// collection is returned as an empty slice.
func (r *Repository) ReadAll() ([]Book, error) {
	books, present, err := r.load()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, ErrRecordNotFound
	}
	return books, nil
}

// ReadOne returns the book with the given ISBN.
func (r *Repository) ReadOne(isbn string) (Book, error) {
	books, _, err := r.load()
	if err != nil {
		return Book{}, err
	}
	i := indexOf(books, isbn)
	if i < 0 {
		return Book{}, ErrRecordNotFound
	}
	return books[i], nil
}

// Update merges patch onto the book identified by patch.ISBN. The merged
// record is moved to the end of the collection.
func (r *Repository) Update(patch Patch) error {
	if patch.ISBN == nil {
		return ErrRecordNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	books, _, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(books, *patch.ISBN)
	if i < 0 {
		return ErrRecordNotFound
	}

	// Remove by the stored ISBN, not the patched one.
	merged := patch.apply(books[i])
	next := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ISBN != books[i].ISBN {
			next = append(next, b)
		}
	}
	return r.save(append(next, merged))
}

// Delete removes the book with the given ISBN.
func (r *Repository) Delete(isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, _, err := r.load()
	if err != nil {
		return err
	}
	if indexOf(books, isbn) < 0 {
		return ErrRecordNotFound
	}
	next := make([]Book, 0, len(books)-1)
	for _, b := range books {
		if b.ISBN != isbn {
			next = append(next, b)
		}
	}
	return r.save(next)
}
