package catalog

import "strings"

// CategoryAll selects every category when filtering
const CategoryAll = "all"

// Filter returns the entries matching the free-text query and category
// selector. The query matches case-insensitively against name or description;
// an empty query passes everything. Relative order is preserved and a fresh
// slice is returned on every call.
func Filter(entries []Entry, query string, category string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			continue
		}
		if category != CategoryAll && string(e.Category) != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Group is one category section of the menu
type Group struct {
	Category Category `json:"category"`
	Entries  []Entry  `json:"entries"`
}

// GroupByCategory partitions entries into per-category groups, iterating
// categories in display order and omitting empty groups.
func GroupByCategory(entries []Entry) []Group {
	buckets := make(map[Category][]Entry, len(Categories))
	for _, e := range entries {
		buckets[e.Category] = append(buckets[e.Category], e)
	}

	groups := make([]Group, 0, len(Categories))
	for _, c := range Categories {
		if len(buckets[c]) == 0 {
			continue
		}
		groups = append(groups, Group{Category: c, Entries: buckets[c]})
	}
	return groups
}
