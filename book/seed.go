package book

import "errors"

// SeedData returns example books to pre-populate an empty collection.
func SeedData() []Book {
	released := "2015-10-26"
	return []Book{
		{
			Author: "John Doe",
			Title:  "First Novel",
			ISBN:   "99-A",
		},
		{
			Author: "John Smith",
			Title:  "Second Novel",
			ISBN:   "99-B",
		},
		{
			Author:      "Alan A. A. Donovan",
			Title:       "The Go Programming Language",
			ISBN:        "9780134190440",
			ReleaseDate: &released,
		},
	}
}

// Seed creates each book that is not already stored and reports how many
// were added.
func Seed(r *Repository, books []Book) (int, error) {
	added := 0
	for _, b := range books {
		err := r.Create(b)
		if errors.Is(err, ErrDuplicateRecord) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
