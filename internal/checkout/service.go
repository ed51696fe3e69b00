// Package checkout turns the signed-in user's cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/idempotency"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/pricing"
	"github.com/imrishuroy/go-storefront/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("sign in to check out")
	ErrEmptyCart        = errors.New("cart is empty")
)

type Sessions interface {
	Current() (session.Identity, bool)
}

type Cart interface {
	Lines() []cart.Line
	Clear(ctx context.Context)
}

type Orders interface {
	CreateOrder(ctx context.Context, userID string, lines []orders.LineItem, addr orders.ShippingAddress, payment orders.PaymentMethod) (orders.Order, error)
	GetOrderByID(ctx context.Context, id string) (orders.Order, bool, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev aws.OrderPlacedEvent) error
}

type MetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, amount float64) error
}

// Request carries what the checkout form collects. A nil Address means the
// account's default address.
type Request struct {
	IdempotencyKey string
	Address        *orders.ShippingAddress
	Payment        orders.PaymentMethod
	PromoCode      string
}

type Result struct {
	Order   orders.Order    `json:"order"`
	Summary pricing.Summary `json:"summary"`
	// Replayed is set when the order was returned from an earlier attempt with the same key.
	Replayed bool `json:"replayed"`
}

// Service coordinates session, cart and orders. Publisher, Metrics and
// Idempotency are optional.
type Service struct {
	Sessions    Sessions
	Cart        Cart
	Orders      Orders
	Idempotency idempotency.Store
	Publisher   EventPublisher
	Metrics     MetricsRecorder

	mu sync.Mutex
}

// Checkout places an order for the current cart. The cart is cleared only
// after the order has been recorded; on any failure it is left untouched.
func (s *Service) Checkout(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.Sessions.Current()
	if !ok {
		return Result{}, ErrNotAuthenticated
	}

	var key string
	if req.IdempotencyKey != "" && s.Idempotency != nil {
		key = id.ID + ":" + req.IdempotencyKey
		rec, created, err := s.Idempotency.Begin(ctx, key)
		if err != nil {
			return Result{}, fmt.Errorf("idempotency begin: %w", err)
		}
		if !created {
			return s.replay(ctx, rec, req.PromoCode)
		}
	}

	res, err := s.place(ctx, id, req)
	if err != nil {
		if key != "" {
			if merr := s.Idempotency.MarkFailed(ctx, key, err.Error()); merr != nil {
				log.Printf("[checkout] mark failed key=%s: %v", key, merr)
			}
		}
		return Result{}, err
	}

	if key != "" {
		if err := s.Idempotency.MarkDone(ctx, key, res.Order.ID); err != nil {
			log.Printf("[checkout] mark done key=%s order=%s: %v", key, res.Order.ID, err)
		}
	}
	s.announce(ctx, res.Order, req.IdempotencyKey)
	return res, nil
}

func (s *Service) place(ctx context.Context, id session.Identity, req Request) (Result, error) {
	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}

	summary, err := pricing.Summarize(cart.Total(lines), req.PromoCode)
	if err != nil {
		return Result{}, err
	}

	addr := orders.DefaultAddress(id.Name)
	if req.Address != nil {
		addr = *req.Address
	}

	items := make([]orders.LineItem, len(lines))
	for i, l := range lines {
		items[i] = orders.LineItem{Product: l.Product, Quantity: l.Quantity}
	}

	o, err := s.Orders.CreateOrder(ctx, id.ID, items, addr, req.Payment)
	if err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}
	s.Cart.Clear(ctx)
	log.Printf("[checkout] user=%s placed order=%s items=%d", id.ID, o.ID, len(items))
	return Result{Order: o, Summary: summary}, nil
}

func (s *Service) replay(ctx context.Context, rec *idempotency.Record, promo string) (Result, error) {
	switch rec.Status {
	case idempotency.StatusDone:
		o, ok, err := s.Orders.GetOrderByID(ctx, rec.OrderID)
		if err != nil {
			return Result{}, fmt.Errorf("replay %s: %w", rec.OrderID, err)
		}
		if !ok {
			return Result{}, fmt.Errorf("replay %s: %w", rec.OrderID, orders.ErrNotFound)
		}
		summary, err := pricing.Summarize(o.TotalAmount, promo)
		if err != nil {
			summary, _ = pricing.Summarize(o.TotalAmount, "")
		}
		return Result{Order: o, Summary: summary, Replayed: true}, nil
	case idempotency.StatusInProgress:
		return Result{}, idempotency.ErrInProgress
	default:
		return Result{}, fmt.Errorf("unexpected idempotency status %q", rec.Status)
	}
}

// announce is best-effort; the order is already placed.
func (s *Service) announce(ctx context.Context, o orders.Order, idempKey string) {
	if s.Publisher != nil {
		ev := aws.OrderPlacedEvent{
			OrderID:        o.ID,
			UserID:         o.UserID,
			TotalAmount:    o.TotalAmount.StringFixed(2),
			IdempotencyKey: idempKey,
		}
		if err := s.Publisher.PublishOrderPlaced(ctx, ev); err != nil {
			log.Printf("[checkout] publish order=%s: %v", o.ID, err)
		}
	}
	if s.Metrics != nil {
		amount, _ := o.TotalAmount.Float64()
		if err := s.Metrics.RecordOrderPlaced(ctx, amount); err != nil {
			log.Printf("[checkout] metrics order=%s: %v", o.ID, err)
		}
	}
}
