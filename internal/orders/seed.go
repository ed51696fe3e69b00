package orders

import (
	"time"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

var demoAddress = ShippingAddress{
	Name:    "John Doe",
	Street:  "123 Main Street",
	City:    "Anytown",
	State:   "CA",
	ZipCode: "12345",
	Country: "USA",
}

// DefaultAddress is the address used when a checkout does not supply one.
func DefaultAddress(name string) ShippingAddress {
	a := demoAddress
	a.Name = name
	return a
}

// SeedOrders returns the order history of the demo user "1".
func SeedOrders(c *catalog.Catalog) []Order {
	line := func(id string, qty int) LineItem {
		p, _ := c.GetByID(id)
		return LineItem{Product: p, Quantity: qty}
	}
	build := func(id string, status Status, at string, pm PaymentMethod, items ...LineItem) Order {
		created, _ := time.Parse(time.RFC3339, at)
		return Order{
			ID:              id,
			UserID:          "1",
			Items:           items,
			TotalAmount:     Total(items),
			Status:          status,
			CreatedAt:       created,
			ShippingAddress: demoAddress,
			PaymentMethod:   pm,
		}
	}
	return []Order{
		build("ord-001", StatusDelivered, "2023-12-12T10:30:00Z",
			PaymentMethod{Type: PaymentCreditCard, LastFour: "4242"},
			line("1", 1), line("5", 1)),
		build("ord-002", StatusShipped, "2024-01-05T14:20:00Z",
			PaymentMethod{Type: PaymentPayPal},
			line("3", 1)),
		build("ord-003", StatusProcessing, "2024-03-18T09:45:00Z",
			PaymentMethod{Type: PaymentCreditCard, LastFour: "1234"},
			line("7", 1), line("11", 1)),
	}
}
