package ragseed

import (
	"github.com/fairyhunter13/profrag/internal/domain"
)

// BuildItemID returns the index id of a review: "<university> - <professor>".
// Two reviews of the same professor at the same university share an id.
func BuildItemID(university, professor string) string {
	return university + " - " + professor
}

// Assemble pairs a review with its embedding. Metadata is copied verbatim.
func Assemble(university string, r domain.Review, values []float32) domain.IndexedItem {
	return domain.IndexedItem{
		ID:     BuildItemID(university, r.Professor),
		Values: values,
		Metadata: domain.ItemMetadata{
			Review:     r.Review,
			Subject:    r.Subject,
			Stars:      r.Stars,
			University: university,
		},
	}
}

// collapseDuplicates keeps one item per id. The surviving item holds the
// position of the first occurrence and the values of the last, which is what
// a sequence of individual upserts would leave in the index.
func collapseDuplicates(items []domain.IndexedItem) ([]domain.IndexedItem, []string) {
	pos := make(map[string]int, len(items))
	out := make([]domain.IndexedItem, 0, len(items))
	var dups []string
	for _, it := range items {
		if i, ok := pos[it.ID]; ok {
			out[i] = it
			dups = append(dups, it.ID)
			continue
		}
		pos[it.ID] = len(out)
		out = append(out, it)
	}
	return out, dups
}
