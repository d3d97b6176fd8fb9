// Package pagination slices ordered collections into fixed-size, 1-indexed pages.
package pagination

import "strconv"

// Page describes one fixed-size slice of an ordered collection.
type Page struct {
	Number   int
	Size     int
	NumPages int
	Total    int64
	// Offset is the number of items to skip to reach this page.
	Offset  int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

// New resolves a raw page-number request against a collection of total items.
// A non-numeric or empty request resolves to the first page; a numeric request
// outside the valid range resolves to the last page. An empty collection has
// exactly one (empty) page.
func New(total int64, size int, raw string) Page {
	if size < 1 {
		size = 1
	}

	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}

	number := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			number = 1
		case n < 1 || n > numPages:
			number = numPages
		default:
			number = n
		}
	}

	return Page{
		Number:   number,
		Size:     size,
		NumPages: numPages,
		Total:    total,
		Offset:   (number - 1) * size,
		HasPrev:  number > 1,
		HasNext:  number < numPages,
		Prev:     number - 1,
		Next:     number + 1,
	}
}
