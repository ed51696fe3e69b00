package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

func (h *handler) checkout(c *gin.Context) {
	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	in := checkout.Request{
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
		Payment: orders.PaymentMethod{
			Type:     orders.PaymentType(req.Payment.Type),
			LastFour: req.Payment.LastFour,
		},
		PromoCode: req.PromoCode,
	}
	if a := req.Address; a != nil {
		in.Address = &orders.ShippingAddress{
			Name:    a.Name,
			Street:  a.Street,
			City:    a.City,
			State:   a.State,
			ZipCode: a.ZipCode,
			Country: a.Country,
		}
	}

	res, err := h.Checkout.Checkout(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.Header("Location", fmt.Sprintf("/api/orders/%s", res.Order.ID))
	c.JSON(status, res)
}

func (h *handler) listOrders(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	list, err := h.Orders.GetUserOrders(c.Request.Context(), id.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// getOrder hides other users' orders behind a 404, except from admins.
func (h *handler) getOrder(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	o, found, err := h.Orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !found || (o.UserID != id.ID && !id.IsAdmin()) {
		writeError(c, orders.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, o)
}
