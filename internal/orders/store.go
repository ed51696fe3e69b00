// Package orders keeps placed orders in memory, append-only, backed by an
// optional durable journal that can also be read back.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Journal durably records orders. Put must succeed before an order is visible.
type Journal interface {
	Put(ctx context.Context, o Order) error
}

// ReadJournal is a Journal the store also reads back from, so orders placed
// before a restart, or advanced by the worker, are visible through the Store.
type ReadJournal interface {
	Journal
	Get(ctx context.Context, orderID string) (*Order, error)
	UserOrders(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, expected, next Status) error
}

// Store encapsulates the order collection. With a ReadJournal the in-memory
// collection is a cache and the journal owns order status.
type Store struct {
	mu      sync.RWMutex
	orders  []Order
	byID    map[string]int
	seeded  map[string]bool // never journaled
	journal Journal
	nowFunc func() time.Time
	idFunc  func() string
}

type Option func(*Store)

func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.nowFunc = now }
}

func WithIDs(next func() string) Option {
	return func(s *Store) { s.idFunc = next }
}

// WithSeed preloads historical orders. They are not written to the journal.
func WithSeed(seed []Order) Option {
	return func(s *Store) {
		for _, o := range seed {
			s.append(o)
			s.seeded[o.ID] = true
		}
	}
}

// NewStore creates an empty orders Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:    map[string]int{},
		seeded:  map[string]bool{},
		nowFunc: time.Now,
		idFunc:  newOrderID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// maxIDAttempts bounds journal puts per order when ids collide.
const maxIDAttempts = 3

// newOrderID yields ids like ord-1f0c2a9b.
func newOrderID() string {
	return "ord-" + uuid.NewString()[:8]
}

// CreateOrder snapshots lines into a pending order. The total is computed here,
// never taken from the caller. An empty lines slice is accepted and yields a
// zero total. The only failure is a journal write error, in which case nothing
// is recorded.
func (s *Store) CreateOrder(ctx context.Context, userID string, lines []LineItem, addr ShippingAddress, payment PaymentMethod) (Order, error) {
	items := slices.Clone(lines)
	if items == nil {
		items = []LineItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := Order{
		ID:              s.uniqueID(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     Total(items),
		Status:          StatusPending,
		CreatedAt:       s.nowFunc().UTC(),
		ShippingAddress: addr,
		PaymentMethod:   payment,
	}

	if s.journal != nil {
		// ids only need to be unique-enough; a clash with an order written
		// before a restart gets a fresh id
		err := s.journal.Put(ctx, o)
		for attempt := 1; errors.Is(err, ErrDuplicateOrder) && attempt < maxIDAttempts; attempt++ {
			o.ID = s.uniqueID()
			err = s.journal.Put(ctx, o)
		}
		if err != nil {
			return Order{}, fmt.Errorf("journal order: %w", err)
		}
	}

	s.append(o)
	log.Printf("[orders] created order=%s user=%s total=%s", o.ID, o.UserID, o.TotalAmount.StringFixed(2))
	return copyOrder(o), nil
}

// callers hold s.mu
func (s *Store) uniqueID() string {
	for {
		id := s.idFunc()
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

// callers hold s.mu (or are constructing the store)
func (s *Store) append(o Order) {
	s.byID[o.ID] = len(s.orders)
	s.orders = append(s.orders, o)
}

// durable returns the journal when it can be read back and id lives in it.
func (s *Store) durable(id string) (ReadJournal, bool) {
	rj, ok := s.journal.(ReadJournal)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rj, !s.seeded[id]
}

func (s *Store) local(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Order{}, false
	}
	return copyOrder(s.orders[i]), true
}

// adopt merges a journal record into the cache. The journal wins on status.
func (s *Store) adopt(o Order) Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byID[o.ID]; ok {
		s.orders[i].Status = o.Status
		return copyOrder(s.orders[i])
	}
	s.append(o)
	return copyOrder(o)
}

// GetOrderByID returns the order with id, if any. Orders that are not yet in
// a terminal status are re-read from a ReadJournal, and ids unknown locally
// are looked up there.
func (s *Store) GetOrderByID(ctx context.Context, id string) (Order, bool, error) {
	o, found := s.local(id)
	rj, durable := s.durable(id)
	if !durable || (found && o.Status.Terminal()) {
		return o, found, nil
	}

	rec, err := rj.Get(ctx, id)
	if err != nil {
		if found {
			log.Printf("[orders] refresh order=%s: %v", id, err)
			return o, true, nil
		}
		return Order{}, false, fmt.Errorf("journal get: %w", err)
	}
	if rec == nil {
		return o, found, nil
	}
	return s.adopt(*rec), true, nil
}

// GetUserOrders returns userID's orders in insertion order. With a
// ReadJournal, journaled orders this process has not seen are appended
// oldest first.
func (s *Store) GetUserOrders(ctx context.Context, userID string) ([]Order, error) {
	if rj, ok := s.journal.(ReadJournal); ok {
		recs, err := rj.UserOrders(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("journal user orders: %w", err)
		}
		for _, rec := range recs {
			s.adopt(rec)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

// All returns every known order in insertion order, with open journaled
// orders refreshed.
func (s *Store) All(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	ids := make([]string, len(s.orders))
	for i, o := range s.orders {
		ids[i] = o.ID
	}
	s.mu.RUnlock()

	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		o, ok, err := s.GetOrderByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Count: len(s.orders), Revenue: decimal.Zero}
	for _, o := range s.orders {
		st.Revenue = st.Revenue.Add(o.TotalAmount)
	}
	return st
}

// UpdateStatus moves an order from expected to next.
// Returns ErrStatusMismatch if the order is not currently in expected, and
// ErrInvalidTransition if expected -> next is not an allowed edge. Journaled
// orders are updated in the journal first; on a mismatch the cached copy is
// refreshed from it.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, expected, next Status) (Order, error) {
	if !expected.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, expected, next)
	}

	rj, durable := s.durable(orderID)
	if !durable {
		return s.setStatus(orderID, expected, next, true)
	}

	if _, ok, err := s.GetOrderByID(ctx, orderID); err != nil {
		return Order{}, err
	} else if !ok {
		return Order{}, ErrNotFound
	}
	if err := rj.UpdateStatus(ctx, orderID, expected, next); err != nil {
		if errors.Is(err, ErrStatusMismatch) {
			if rec, gerr := rj.Get(ctx, orderID); gerr == nil && rec != nil {
				s.adopt(*rec)
			}
			return Order{}, ErrStatusMismatch
		}
		return Order{}, fmt.Errorf("journal status: %w", err)
	}
	return s.setStatus(orderID, expected, next, false)
}

func (s *Store) setStatus(orderID string, expected, next Status, check bool) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if check && s.orders[i].Status != expected {
		return Order{}, ErrStatusMismatch
	}
	s.orders[i].Status = next
	return copyOrder(s.orders[i]), nil
}

// Total sums unit price x quantity over items.
func Total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func copyOrder(o Order) Order {
	o.Items = slices.Clone(o.Items)
	return o
}
