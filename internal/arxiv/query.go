package arxiv

import (
	"fmt"
	"strings"
)

// categoryMap expands umbrella subject areas to the full set of arXiv
// sub-categories registered under them. Tokens not present here are taken
// to already be concrete categories.
var categoryMap = map[string][]string{
	"physics": {
		"physics.acc-ph", "physics.app-ph", "physics.atm-clus", "physics.atom-ph",
		"physics.bio-ph", "physics.chem-ph", "physics.class-ph", "physics.comp-ph",
		"physics.data-an", "physics.flu-dyn", "physics.gen-ph", "physics.geo-ph",
		"physics.hist-ph", "physics.ins-det", "physics.med-ph", "physics.optics",
		"physics.ed-ph", "physics.soc-ph", "physics.plasm-ph", "physics.pop-ph",
		"physics.space-ph",
	},
	"astro-ph": {
		"astro-ph.CO", "astro-ph.EP", "astro-ph.GA", "astro-ph.HE",
		"astro-ph.IM", "astro-ph.SR",
	},
}

// BuildQuery joins the keywords into an arXiv search query, each keyword
// double-quoted and combined with OR. An empty keyword list yields an
// empty query.
func BuildQuery(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, fmt.Sprintf("%q", kw))
	}
	return strings.Join(parts, " OR ")
}

// ExpandCategories expands each umbrella field to its registered
// sub-categories. Unrecognized tokens pass through unchanged.
func ExpandCategories(fields []string) []string {
	var categories []string
	for _, field := range fields {
		if subs, ok := categoryMap[field]; ok {
			categories = append(categories, subs...)
		} else {
			categories = append(categories, field)
		}
	}
	return categories
}
