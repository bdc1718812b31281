// Package catalog holds the immutable product list the storefront sells from.
//
// A Catalog is built once at startup and never mutated afterwards; every
// accessor hands out copies so callers cannot reach into its storage.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrNegativePrice    = errors.New("negative product price")
)

// Product is a sellable item. Price is expressed in the smallest currency
// unit (whole Rupiah).
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"`
}

type Catalog struct {
	products []Product
	index    map[int64]int
}

// New builds a catalog from the given products, keeping their order.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("catalog: product %d: %w", p.ID, ErrDuplicateProduct)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("catalog: product %d: %w", p.ID, ErrNegativePrice)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads a JSON array of products from path.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", path, err)
	}
	return New(products)
}

// Products returns the catalog contents in display order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id int64) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, fmt.Errorf("catalog: product %d: %w", id, ErrProductNotFound)
	}
	return c.products[i], nil
}

func (c *Catalog) Len() int { return len(c.products) }
