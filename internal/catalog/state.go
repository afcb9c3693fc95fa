package catalog

import "coqueta/internal/domain"

// State holds a loaded catalog and the active filter. Transitions return a
// new State and never modify the receiver.
type State struct {
	products []domain.CatalogProduct
	filter   Filter
}

// NewState starts a catalog view with no filter applied
func NewState(products []domain.CatalogProduct) State {
	return State{products: append([]domain.CatalogProduct(nil), products...)}
}

func (s State) Filter() Filter { return s.filter }

// WithFilter replaces the whole filter at once
func (s State) WithFilter(f Filter) State {
	s.filter = f
	return s
}

func (s State) SetQuery(q string) State {
	s.filter.Query = q
	return s
}

// SetCategory changes the category selector. The subcategory selection is
// reset because its options depend on the category.
func (s State) SetCategory(name string) State {
	s.filter.Category = name
	s.filter.Subcategory = ""
	return s
}

func (s State) SetSubcategory(label string) State {
	s.filter.Subcategory = label
	return s
}

// Visible returns the products matching the current filter
func (s State) Visible() []domain.CatalogProduct {
	return s.filter.Apply(s.products)
}

// Len returns the size of the unfiltered catalog
func (s State) Len() int { return len(s.products) }
