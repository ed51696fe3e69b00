package validation

// LoginRequest is the payload for POST /api/session/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the payload for POST /api/session/signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AddItemRequest is the payload for POST /api/cart/items.
// A missing quantity means one.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateQuantityRequest sets a line's quantity; anything below one removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type Address struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type Payment struct {
	Type     string `json:"type" validate:"required,oneof=credit_card paypal bank_transfer"`
	LastFour string `json:"last_four,omitempty"`
}

// CheckoutRequest is the payload for POST /api/checkout. The address is
// optional; the account's default address is used when omitted.
type CheckoutRequest struct {
	Address   *Address `json:"address,omitempty" validate:"omitempty"`
	Payment   Payment  `json:"payment"`
	PromoCode string   `json:"promo_code,omitempty"`
}

// StatusRequest is the payload for PUT /api/admin/orders/:id/status
type StatusRequest struct {
	From string `json:"from" validate:"required,oneof=pending processing shipped delivered cancelled"`
	To   string `json:"to" validate:"required,oneof=pending processing shipped delivered cancelled"`
}
