package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/clock"
	"github.com/imrishuroy/go-storefront/internal/idempotency"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/pricing"
	"github.com/imrishuroy/go-storefront/internal/session"
	"github.com/imrishuroy/go-storefront/internal/snapshot"
)

var paypal = orders.PaymentMethod{Type: orders.PaymentPayPal}

type recordingPublisher struct {
	events []aws.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, ev aws.OrderPlacedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type recordingMetrics struct{ amounts []float64 }

func (m *recordingMetrics) RecordOrderPlaced(ctx context.Context, amount float64) error {
	m.amounts = append(m.amounts, amount)
	return nil
}

type failingOrders struct{ err error }

func (f failingOrders) CreateOrder(context.Context, string, []orders.LineItem, orders.ShippingAddress, orders.PaymentMethod) (orders.Order, error) {
	return orders.Order{}, f.err
}

func (failingOrders) GetOrderByID(context.Context, string) (orders.Order, bool, error) {
	return orders.Order{}, false, nil
}

// memJournal is an in-memory orders.ReadJournal shared across store restarts.
type memJournal struct {
	items map[string]orders.Order
	ids   []string
}

func newMemJournal() *memJournal { return &memJournal{items: map[string]orders.Order{}} }

func (j *memJournal) Put(ctx context.Context, o orders.Order) error {
	if _, ok := j.items[o.ID]; ok {
		return orders.ErrDuplicateOrder
	}
	j.items[o.ID] = o
	j.ids = append(j.ids, o.ID)
	return nil
}

func (j *memJournal) Get(ctx context.Context, id string) (*orders.Order, error) {
	o, ok := j.items[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (j *memJournal) UserOrders(ctx context.Context, userID string) ([]orders.Order, error) {
	var out []orders.Order
	for _, id := range j.ids {
		if j.items[id].UserID == userID {
			out = append(out, j.items[id])
		}
	}
	return out, nil
}

func (j *memJournal) UpdateStatus(ctx context.Context, id string, expected, next orders.Status) error {
	o, ok := j.items[id]
	if !ok || o.Status != expected {
		return orders.ErrStatusMismatch
	}
	o.Status = next
	j.items[id] = o
	return nil
}

type fixture struct {
	catalog   *catalog.Catalog
	sessions  *session.Store
	cart      *cart.Store
	orders    *orders.Store
	publisher *recordingPublisher
	metrics   *recordingMetrics
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		catalog:   catalog.Default(),
		sessions:  session.NewStore(ctx, session.DefaultDirectory(), snapshot.NewMemory(), session.WithClock(clock.NewFake(time.Now()))),
		cart:      cart.NewStore(ctx, snapshot.NewMemory()),
		orders:    orders.NewStore(),
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}
	f.svc = &Service{
		Sessions:    f.sessions,
		Cart:        f.cart,
		Orders:      f.orders,
		Idempotency: idempotency.NewMemoryStore(time.Hour),
		Publisher:   f.publisher,
		Metrics:     f.metrics,
	}
	return f
}

func (f *fixture) login(t *testing.T) session.Identity {
	t.Helper()
	id, err := f.sessions.Login(context.Background(), "user@example.com", "password")
	require.NoError(t, err)
	return id
}

func (f *fixture) allOrders(t *testing.T) []orders.Order {
	t.Helper()
	all, err := f.orders.All(context.Background())
	require.NoError(t, err)
	return all
}

func (f *fixture) add(t *testing.T, id string, qty int) {
	t.Helper()
	p, ok := f.catalog.GetByID(id)
	require.True(t, ok)
	f.cart.Add(context.Background(), p, qty)
}

func TestCheckout_TwoLines(t *testing.T) {
	f := newFixture(t)
	user := f.login(t)
	f.add(t, "1", 2)
	f.add(t, "7", 1)
	before := f.cart.Lines()

	res, err := f.svc.Checkout(context.Background(), Request{Payment: paypal})
	require.NoError(t, err)

	assert.True(t, f.cart.IsEmpty())
	all := f.allOrders(t)
	require.Len(t, all, 1)
	assert.Equal(t, res.Order.ID, all[0].ID)

	o := res.Order
	assert.Equal(t, user.ID, o.UserID)
	assert.Equal(t, orders.StatusPending, o.Status)
	require.Len(t, o.Items, len(before))
	for i, l := range before {
		assert.Equal(t, l.Product, o.Items[i].Product)
		assert.Equal(t, l.Quantity, o.Items[i].Quantity)
	}
	assert.Equal(t, "449.97", o.TotalAmount.StringFixed(2))
	assert.Equal(t, orders.DefaultAddress(user.Name), o.ShippingAddress)
	assert.False(t, res.Replayed)

	// shipping is free over 100, tax is 8%
	assert.True(t, res.Summary.Shipping.IsZero())
	assert.Equal(t, "36.00", res.Summary.Tax.StringFixed(2))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, o.ID, f.publisher.events[0].OrderID)
	assert.Equal(t, "449.97", f.publisher.events[0].TotalAmount)
	assert.Equal(t, []float64{449.97}, f.metrics.amounts)
}

func TestCheckout_RequiresSession(t *testing.T) {
	f := newFixture(t)
	f.add(t, "1", 1)

	_, err := f.svc.Checkout(context.Background(), Request{Payment: paypal})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 1, f.cart.Len())
	assert.Empty(t, f.allOrders(t))
}

func TestCheckout_RequiresItems(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.svc.Checkout(context.Background(), Request{Payment: paypal})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.allOrders(t))
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "3", 1)
	f.svc.Orders = failingOrders{err: errors.New("journal down")}

	_, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "k1"})
	require.ErrorContains(t, err, "journal down")
	assert.Equal(t, 1, f.cart.Quantity("3"))
	assert.Empty(t, f.publisher.events)

	// the key is released so the retry can go through
	f.svc.Orders = f.orders
	res, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "k1"})
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.True(t, f.cart.IsEmpty())
}

func TestCheckout_InvalidPromoPlacesNothing(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "2", 1)

	_, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, PromoCode: "FREE"})
	assert.ErrorIs(t, err, pricing.ErrInvalidPromo)
	assert.Equal(t, 1, f.cart.Len())
	assert.Empty(t, f.allOrders(t))
}

func TestCheckout_PromoAndAddress(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "7", 1)
	addr := orders.ShippingAddress{Name: "Jane", Street: "1 Road", City: "Town", State: "NY", ZipCode: "10001", Country: "USA"}

	res, err := f.svc.Checkout(context.Background(), Request{
		Address:   &addr,
		Payment:   orders.PaymentMethod{Type: orders.PaymentCreditCard, LastFour: "4242"},
		PromoCode: "save20",
	})
	require.NoError(t, err)
	assert.Equal(t, addr, res.Order.ShippingAddress)
	// the order total is the raw line sum; the promo only shows in the summary
	assert.Equal(t, "49.99", res.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, "10.00", res.Summary.Discount.StringFixed(2))
	assert.Equal(t, "9.99", res.Summary.Shipping.StringFixed(2))
}

func TestCheckout_ReplaysSameKey(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "5", 1)

	first, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "abc"})
	require.NoError(t, err)

	// the cart is empty now, but the replay still succeeds
	second, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "abc"})
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Len(t, f.allOrders(t), 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestCheckout_InProgressKey(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "5", 1)

	_, created, err := f.svc.Idempotency.Begin(context.Background(), "1:busy")
	require.NoError(t, err)
	require.True(t, created)

	_, err = f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "busy"})
	assert.ErrorIs(t, err, idempotency.ErrInProgress)
	assert.Equal(t, 1, f.cart.Len())
}

func TestCheckout_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "4", 1)
	f.publisher.err = errors.New("queue unavailable")

	res, err := f.svc.Checkout(context.Background(), Request{Payment: paypal})
	require.NoError(t, err)
	_, ok, err := f.orders.GetOrderByID(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, f.cart.IsEmpty())
}

func TestCheckout_ReplayAfterRestart(t *testing.T) {
	f := newFixture(t)
	journal := newMemJournal()
	f.orders = orders.NewStore(orders.WithJournal(journal))
	f.svc.Orders = f.orders
	f.login(t)
	f.add(t, "6", 2)

	first, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "restart"})
	require.NoError(t, err)

	// the worker moves the order on while the api process restarts
	require.NoError(t, journal.UpdateStatus(context.Background(), first.Order.ID, orders.StatusPending, orders.StatusProcessing))
	f.svc.Orders = orders.NewStore(orders.WithJournal(journal))

	second, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "restart"})
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, orders.StatusProcessing, second.Order.Status)
	assert.True(t, first.Order.TotalAmount.Equal(second.Order.TotalAmount))
	assert.Len(t, f.publisher.events, 1)
}

func TestCheckout_ReplayOfLostOrder(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.add(t, "6", 1)

	_, err := f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "lost"})
	require.NoError(t, err)

	f.svc.Orders = orders.NewStore()
	_, err = f.svc.Checkout(context.Background(), Request{Payment: paypal, IdempotencyKey: "lost"})
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
