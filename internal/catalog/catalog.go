// Package catalog serves the static product list. A Catalog is never mutated
// after construction, so it is safe for concurrent readers.
package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Sort orders accepted by Filter.
const (
	SortFeatured     = "featured"
	SortPriceLowHigh = "price-low-high"
	SortPriceHighLow = "price-high-low"
)

type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a Catalog over products, keeping their order. Later duplicates of
// an id are ignored.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default returns a Catalog over the demo products.
func Default() *Catalog { return New(Seed()) }

func (c *Catalog) Len() int { return len(c.products) }

// List returns every product in catalog order.
func (c *Catalog) List() []Product {
	return slices.Clone(c.products)
}

func (c *Catalog) GetByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) ByCategory(category string) []Product {
	return c.where(func(p Product) bool { return p.Category == category })
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Search matches query case-insensitively against name and description.
// An empty query matches everything; no match yields an empty slice.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(query)
	return c.where(func(p Product) bool { return matches(p, q, false) })
}

// AdminSearch is Search that also matches the category label.
func (c *Catalog) AdminSearch(query string) []Product {
	q := strings.ToLower(query)
	return c.where(func(p Product) bool { return matches(p, q, true) })
}

// Related returns up to limit other products from the same category.
func (c *Catalog) Related(id string, limit int) []Product {
	p, ok := c.GetByID(id)
	if !ok || limit <= 0 {
		return []Product{}
	}
	out := make([]Product, 0, limit)
	for _, o := range c.products {
		if len(out) == limit {
			break
		}
		if o.Category == p.Category && o.ID != p.ID {
			out = append(out, o)
		}
	}
	return out
}

// Query narrows a product listing. Zero fields do not filter.
type Query struct {
	Text       string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
}

// Filter applies q. Price bounds are inclusive. Unknown sort orders fall back
// to catalog order.
func (c *Catalog) Filter(q Query) []Product {
	text := strings.ToLower(q.Text)
	cats := make(map[string]struct{}, len(q.Categories))
	for _, cat := range q.Categories {
		cats[cat] = struct{}{}
	}

	out := c.where(func(p Product) bool {
		if text != "" && !matches(p, text, false) {
			return false
		}
		if len(cats) > 0 {
			if _, ok := cats[p.Category]; !ok {
				return false
			}
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			return false
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			return false
		}
		return true
	})

	switch q.Sort {
	case SortPriceLowHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHighLow:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	}
	return out
}

func (c *Catalog) where(keep func(Product) bool) []Product {
	out := []Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// matches expects q already lower-cased.
func matches(p Product, q string, withCategory bool) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	return withCategory && strings.Contains(strings.ToLower(p.Category), q)
}
