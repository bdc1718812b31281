// Package selection tracks the product currently open in the detail view.
package selection

import "github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"

type Selection struct {
	product *catalog.Product
}

func New() *Selection {
	return &Selection{}
}

func (s *Selection) Select(p catalog.Product) {
	s.product = &p
}

// Clear closes the detail view. Clearing an empty selection is a no-op.
func (s *Selection) Clear() {
	s.product = nil
}

func (s *Selection) Current() (catalog.Product, bool) {
	if s.product == nil {
		return catalog.Product{}, false
	}
	return *s.product, true
}
