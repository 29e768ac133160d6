package books

import (
	"sort"

	"github.com/ayush/bookshelf/internal/models"
)

// Rank joins books with their interaction aggregates by book id and
// sorts by total interaction count, highest first. Books with no
// interaction record rank with zero counts.
func Rank(books []models.Book, aggs []models.Aggregate) []models.RankedBook {
	byBook := make(map[string]models.Aggregate, len(aggs))
	for _, a := range aggs {
		byBook[a.BookID] = a
	}

	ranked := make([]models.RankedBook, 0, len(books))
	for _, b := range books {
		rb := models.RankedBook{Book: b}
		if a, ok := byBook[b.ID.Hex()]; ok {
			rb.LikeCount = a.LikeCount
			rb.ReadCount = a.ReadCount
			rb.NumberOfInteractions = a.NumberOfInteractions
		}
		ranked = append(ranked, rb)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NumberOfInteractions > ranked[j].NumberOfInteractions
	})
	return ranked
}
