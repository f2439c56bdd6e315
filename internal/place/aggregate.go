// AngelaMos | 2026
// aggregate.go

package place

import (
	"sort"
)

var priceRanges = []string{"$", "$$", "$$$", "$$$$"}

// TopTags counts tag occurrences across facets and returns up to n slugs by
// descending count. Ties keep whatever order map iteration produced.
func TopTags(facets []Facet, n int) []string {
	counts := make(map[string]int)
	for _, f := range facets {
		for _, slug := range f.Tags {
			counts[slug]++
		}
	}

	slugs := make([]string, 0, len(counts))
	for slug := range counts {
		slugs = append(slugs, slug)
	}

	sort.SliceStable(slugs, func(i, j int) bool {
		return counts[slugs[i]] > counts[slugs[j]]
	})

	if len(slugs) > n {
		slugs = slugs[:n]
	}
	return slugs
}

// PriceDistribution counts facets per price range. Every range is present,
// zero when unused.
func PriceDistribution(facets []Facet) map[string]int {
	dist := make(map[string]int, len(priceRanges))
	for _, pr := range priceRanges {
		dist[pr] = 0
	}
	for _, f := range facets {
		if _, ok := dist[f.PriceRange]; ok {
			dist[f.PriceRange]++
		}
	}
	return dist
}
