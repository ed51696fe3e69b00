// Package cart holds the line items of the active session. Every mutation
// writes the whole cart to its snapshot store.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/snapshot"
)

// Line pairs a product with a quantity. A cart holds at most one line per product id.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is unit price x quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Store struct {
	mu    sync.Mutex
	lines []Line
	snap  snapshot.Store
}

// NewStore loads the persisted cart. A missing or unreadable snapshot yields an
// empty cart; a corrupt one is also deleted.
func NewStore(ctx context.Context, snap snapshot.Store) *Store {
	s := &Store{snap: snap}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Line {
	blob, err := s.snap.Load(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[cart] load snapshot: %v", err)
		return nil
	}
	lines, err := snapshot.Decode[[]Line](blob)
	if err != nil {
		log.Printf("[cart] discarding snapshot: %v", err)
		if derr := s.snap.Delete(ctx); derr != nil {
			log.Printf("[cart] delete snapshot: %v", derr)
		}
		return nil
	}
	return normalize(lines)
}

// normalize drops unusable lines and merges duplicate product ids so a
// hand-edited snapshot cannot break the one-line-per-product rule.
func normalize(in []Line) []Line {
	var out []Line
	pos := make(map[string]int)
	for _, l := range in {
		if l.Product.ID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := pos[l.Product.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.Product.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// Add increments the line for product by quantity, or appends a new line.
// Callers pass 1 when the user did not pick a quantity. A line whose
// quantity ends up below 1 is removed, so no line ever holds less than one.
func (s *Store) Add(ctx context.Context, product catalog.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		if s.lines[i].Quantity < 1 {
			s.remove(product.ID)
		}
	} else if quantity >= 1 {
		s.lines = append(s.lines, Line{Product: product, Quantity: quantity})
	}
	s.persist(ctx)
}

// Remove drops the line for productID; absent ids are ignored.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(productID)
	s.persist(ctx)
}

// UpdateQuantity sets the quantity in place. A quantity below 1 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity < 1 {
		s.remove(productID)
	} else if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity = quantity
	}
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist(ctx)
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) IsEmpty() bool { return s.Len() == 0 }

// Quantity returns the quantity held for productID, 0 if absent.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// TotalItems is the sum of all quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of line subtotals.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.lines)
}

// Total sums the subtotals of lines.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// callers hold s.mu
func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// callers hold s.mu
func (s *Store) remove(productID string) {
	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

// persist writes the snapshot. Failures are logged; the in-memory cart stays
// authoritative. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	blob, err := snapshot.Encode(lines)
	if err == nil {
		err = s.snap.Save(ctx, blob)
	}
	if err != nil {
		log.Printf("[cart] save snapshot: %v", err)
	}
}
