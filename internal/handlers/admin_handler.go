package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

func (h *handler) adminOverview(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	ov, err := h.Admin.Overview(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (h *handler) adminProducts(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	products, err := h.Admin.Products(id, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handler) adminOrders(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	list, err := h.Admin.Orders(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) adminSetStatus(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req validation.StatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.Admin.SetOrderStatus(c.Request.Context(), id, c.Param("id"), orders.Status(req.From), orders.Status(req.To))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
