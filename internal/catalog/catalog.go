// Package catalog derives the display-ready product list shown by the
// storefront and the sales screen: products joined with their category and
// subcategory names, narrowed by the shopper's search and selectors.
package catalog

import (
	"strings"

	"coqueta/internal/domain"
)

// UncategorizedLabel is shown for products whose category does not resolve.
const UncategorizedLabel = "Sin categoría"

// Denormalize joins each product with its resolved category name and, when
// the lookup knows it, its subcategory name. Order is preserved and no
// product is ever dropped.
func Denormalize(products []*domain.Product, categoryNames, subcategoryNames map[string]string) []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		name, ok := categoryNames[p.CategoryID]
		if !ok || name == "" {
			name = UncategorizedLabel
		}
		out = append(out, domain.CatalogProduct{
			Product:         *p,
			CategoryName:    name,
			SubcategoryName: subcategoryNames[p.Subcategory],
		})
	}
	return out
}

// CategoryNameIndex maps category ids to display names
func CategoryNameIndex(categories []*domain.Category) map[string]string {
	idx := make(map[string]string, len(categories))
	for _, c := range categories {
		idx[c.ID] = c.Name
	}
	return idx
}

// SubcategoryNameIndex maps subcategory lookup ids to display names
func SubcategoryNameIndex(subcategories []*domain.Subcategory) map[string]string {
	idx := make(map[string]string, len(subcategories))
	for _, s := range subcategories {
		idx[s.ID] = s.Name
	}
	return idx
}

// CategoryNames lists category names in repository order, for selectors
func CategoryNames(categories []*domain.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// SubcategoryOptions returns the labels owned by the named category, or nil
// when no category has that name.
func SubcategoryOptions(categories []*domain.Category, categoryName string) []string {
	for _, c := range categories {
		if c.Name == categoryName {
			return append([]string(nil), c.Subcategories...)
		}
	}
	return nil
}

// Filter is the shopper's current search. Empty fields match everything.
type Filter struct {
	Query       string
	Category    string
	Subcategory string
}

// IsZero reports whether the filter matches every product
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Category == "" && f.Subcategory == ""
}

// Match reports whether a product satisfies all three predicates.
// Category is compared against the resolved name, subcategory against the
// raw product field.
func (f Filter) Match(p domain.CatalogProduct) bool {
	if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.Category != "" && p.CategoryName != f.Category {
		return false
	}
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	return true
}

// Apply returns the matching subsequence of items in input order
func (f Filter) Apply(items []domain.CatalogProduct) []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Inventory applies the back office variant of the filter, where Category
// holds a category id instead of a resolved name.
func (f Filter) Inventory(products []*domain.Product) []*domain.Product {
	out := make([]*domain.Product, 0, len(products))
	query := strings.ToLower(f.Query)
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if f.Category != "" && p.CategoryID != f.Category {
			continue
		}
		if f.Subcategory != "" && p.Subcategory != f.Subcategory {
			continue
		}
		out = append(out, p)
	}
	return out
}
