package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

// Status of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the allowed next states; delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentType values
type PaymentType string

const (
	PaymentCreditCard   PaymentType = "credit_card"
	PaymentPayPal       PaymentType = "paypal"
	PaymentBankTransfer PaymentType = "bank_transfer"
)

type ShippingAddress struct {
	Name    string `json:"name" dynamodbav:"name"`
	Street  string `json:"street" dynamodbav:"street"`
	City    string `json:"city" dynamodbav:"city"`
	State   string `json:"state" dynamodbav:"state"`
	ZipCode string `json:"zip_code" dynamodbav:"zip_code"`
	Country string `json:"country" dynamodbav:"country"`
}

type PaymentMethod struct {
	Type     PaymentType `json:"type" dynamodbav:"type"`
	LastFour string      `json:"last_four,omitempty" dynamodbav:"last_four,omitempty"` // card payments only
}

// LineItem is a copy of a cart line taken at checkout. It embeds the product
// as it was then, so later catalog edits do not rewrite history.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"date"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
}

// Stats aggregates the order collection for the admin overview.
type Stats struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

var (
	ErrNotFound = errors.New("order not found")
	// ErrStatusMismatch means the order was not in the expected status.
	ErrStatusMismatch    = errors.New("status mismatch/conditional failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateOrder    = errors.New("order already exists")
)
