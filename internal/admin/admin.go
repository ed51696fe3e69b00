// Package admin serves the read-mostly dashboard available to administrators.
package admin

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/session"
)

var ErrForbidden = errors.New("admin role required")

type Overview struct {
	Products int             `json:"products"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	Users    int             `json:"users"`
}

type OrderStore interface {
	All(ctx context.Context) ([]orders.Order, error)
	Stats() orders.Stats
	UpdateStatus(ctx context.Context, orderID string, expected, next orders.Status) (orders.Order, error)
}

type Users interface {
	UserCount() int
}

type Service struct {
	catalog *catalog.Catalog
	orders  OrderStore
	users   Users
}

func NewService(c *catalog.Catalog, o OrderStore, u Users) *Service {
	return &Service{catalog: c, orders: o, users: u}
}

func authorize(id session.Identity) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Overview returns the dashboard counters.
func (s *Service) Overview(id session.Identity) (Overview, error) {
	if err := authorize(id); err != nil {
		return Overview{}, err
	}
	st := s.orders.Stats()
	return Overview{
		Products: s.catalog.Len(),
		Orders:   st.Count,
		Revenue:  st.Revenue,
		Users:    s.users.UserCount(),
	}, nil
}

// Products lists the catalog, filtered by name, description or category.
func (s *Service) Products(id session.Identity, query string) ([]catalog.Product, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.catalog.AdminSearch(query), nil
}

func (s *Service) Orders(ctx context.Context, id session.Identity) ([]orders.Order, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.orders.All(ctx)
}

func (s *Service) SetOrderStatus(ctx context.Context, id session.Identity, orderID string, from, to orders.Status) (orders.Order, error) {
	if err := authorize(id); err != nil {
		return orders.Order{}, err
	}
	return s.orders.UpdateStatus(ctx, orderID, from, to)
}
