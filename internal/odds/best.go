package odds

import (
	"sort"

	"github.com/yourusername/trackodds/internal/models"
)

// SelectBest returns the most favourable quote and the book posting it.
// Favourability is the signed value, so +500 beats +200 and -110 beats -200.
// With no usable quotes the result is (0, ""). Ties go to the earliest book in
// models.Sportsbooks; unknown books rank after known ones alphabetically.
func SelectBest(quotes map[models.Sportsbook]int) (int, models.Sportsbook) {
	best := 0
	var bestBook models.Sportsbook
	found := false

	for _, book := range OrderedBooks(quotes) {
		o := quotes[book]
		if o == 0 {
			continue
		}
		if !found || o > best {
			best, bestBook, found = o, book, true
		}
	}
	return best, bestBook
}

// OrderedBooks returns the keys of quotes in canonical display order
func OrderedBooks(quotes map[models.Sportsbook]int) []models.Sportsbook {
	books := make([]models.Sportsbook, 0, len(quotes))
	for b := range quotes {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		return bookLess(books[i], books[j])
	})
	return books
}

func bookLess(a, b models.Sportsbook) bool {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra >= 0 && rb >= 0:
		return ra < rb
	case ra >= 0:
		return true
	case rb >= 0:
		return false
	default:
		return a < b
	}
}
