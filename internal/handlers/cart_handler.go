package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/pricing"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice string      `json:"total_price"`
}

func (h *handler) currentCart() cartView {
	lines := h.Cart.Lines()
	items := 0
	for _, l := range lines {
		items += l.Quantity
	}
	return cartView{
		Items:      lines,
		TotalItems: items,
		TotalPrice: cart.Total(lines).StringFixed(2),
	}
}

func (h *handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentCart())
}

func (h *handler) addItem(c *gin.Context) {
	var req validation.AddItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	p, ok := h.Catalog.GetByID(req.ProductID)
	if !ok {
		writeError(c, errProductNotFound)
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	h.Cart.Add(c.Request.Context(), p, qty)
	c.JSON(http.StatusOK, h.currentCart())
}

func (h *handler) updateItem(c *gin.Context) {
	var req validation.UpdateQuantityRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	h.Cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, h.currentCart())
}

func (h *handler) removeItem(c *gin.Context) {
	h.Cart.Remove(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, h.currentCart())
}

func (h *handler) clearCart(c *gin.Context) {
	h.Cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.currentCart())
}

// cartSummary prices the current cart, optionally with ?promo=CODE
func (h *handler) cartSummary(c *gin.Context) {
	s, err := pricing.Summarize(h.Cart.TotalPrice(), c.Query("promo"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
