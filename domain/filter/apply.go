package filter

import (
	"sort"

	"pulse311/domain/record"
)

// Subset is the output of the filter stage: the surviving records plus
// the category set that was in scope when they were selected.
type Subset struct {
	Records       []record.Record
	TopCategories []string
}

// Apply runs all active predicates as a logical AND, in a fixed,
// documented order: day, hour, and borough narrow the population first;
// the top-N complaint categories are then ranked within that narrowed
// subset; category membership is the final predicate. An empty result
// is a valid outcome, never an error.
func Apply(records []record.Record, c Criteria) Subset {
	narrowed := make([]record.Record, 0, len(records))
	for _, r := range records {
		if c.matches(r) {
			narrowed = append(narrowed, r)
		}
	}

	top := RankCategories(narrowed, c.TopN)
	if len(top) == 0 {
		return Subset{Records: narrowed, TopCategories: top}
	}

	inScope := make(map[string]bool, len(top))
	for _, category := range top {
		inScope[category] = true
	}

	final := narrowed[:0:0]
	for _, r := range narrowed {
		if inScope[r.ComplaintType] {
			final = append(final, r)
		}
	}

	return Subset{Records: final, TopCategories: top}
}

// RankCategories returns up to n complaint categories ordered by
// descending count. Equal counts order lexicographically ascending so
// the ranking is deterministic across runs.
func RankCategories(records []record.Record, n int) []string {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.ComplaintType]++
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		ci, cj := counts[categories[i]], counts[categories[j]]
		if ci != cj {
			return ci > cj
		}
		return categories[i] < categories[j]
	})

	if len(categories) > n {
		categories = categories[:n]
	}
	return categories
}
