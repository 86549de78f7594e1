package domain

import "strings"

// AllCategories bypasses the category predicate.
const AllCategories = "all"

// Criteria selects catalog items. Search is a free-text substring; Category
// must equal one of the item's tags unless it is empty or AllCategories.
type Criteria struct {
	Search   string
	Category string
}

// Filterable exposes the fields a catalog item is matched on.
type Filterable interface {
	SearchText() []string
	Categories() []string
}

// Filter returns the items matching c, preserving their original order. It
// never returns nil.
func Filter[T Filterable](items []T, c Criteria) []T {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	category := strings.TrimSpace(c.Category)
	anyCategory := category == "" || strings.EqualFold(category, AllCategories)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if search != "" && !containsFold(item.SearchText(), search) {
			continue
		}
		if !anyCategory && !hasCategory(item.Categories(), category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// containsFold reports whether any field contains needle, which must already be lower case.
func containsFold(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func hasCategory(tags []string, category string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, category) {
			return true
		}
	}
	return false
}

func (e SpeciesCatalogEntry) SearchText() []string { return []string{e.Name, e.Description} }
func (e SpeciesCatalogEntry) Categories() []string { return e.Season }

func (d Discussion) SearchText() []string { return []string{d.Title, d.Content, d.Author} }
func (d Discussion) Categories() []string { return d.Tags }
