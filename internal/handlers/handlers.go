package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-storefront/internal/admin"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/idempotency"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/pricing"
	"github.com/imrishuroy/go-storefront/internal/session"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// HandlerConfig groups the stores the HTTP surface reads and mutates.
type HandlerConfig struct {
	Catalog  *catalog.Catalog
	Sessions *session.Store
	Cart     *cart.Store
	Orders   *orders.Store
	Checkout *checkout.Service
	Admin    *admin.Service
}

type handler struct {
	HandlerConfig
	v *validatorv10.Validate
}

// RegisterRoutes mounts the storefront API under /api.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &handler{HandlerConfig: cfg, v: validation.New()}
	api := r.Group("/api")

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/:id/related", h.relatedProducts)
	api.GET("/categories", h.categories)
	api.GET("/search", h.search)

	api.POST("/session/login", h.login)
	api.POST("/session/signup", h.signup)
	api.POST("/session/logout", h.logout)
	api.GET("/session/me", h.me)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addItem)
	api.PUT("/cart/items/:productId", h.updateItem)
	api.DELETE("/cart/items/:productId", h.removeItem)
	api.DELETE("/cart", h.clearCart)
	api.GET("/cart/summary", h.cartSummary)

	api.POST("/checkout", h.checkout)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)

	adm := api.Group("/admin")
	adm.GET("/overview", h.adminOverview)
	adm.GET("/products", h.adminProducts)
	adm.GET("/orders", h.adminOrders)
	adm.PUT("/orders/:id/status", h.adminSetStatus)
}

var errProductNotFound = errors.New("product not found")

// errorStatus maps domain errors to a status code and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, admin.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, errProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, orders.ErrNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, session.ErrEmailAlreadyRegistered):
		return http.StatusConflict, "email_already_registered"
	case errors.Is(err, session.ErrAuthInFlight):
		return http.StatusConflict, "auth_in_flight"
	case errors.Is(err, idempotency.ErrInProgress):
		return http.StatusConflict, "request_in_progress"
	case errors.Is(err, orders.ErrStatusMismatch):
		return http.StatusConflict, "status_mismatch"
	case errors.Is(err, orders.ErrDuplicateOrder):
		return http.StatusConflict, "duplicate_order"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart"
	case errors.Is(err, pricing.ErrInvalidPromo):
		return http.StatusBadRequest, "invalid_promo"
	case errors.Is(err, orders.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid_transition"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": code})
}

// identity returns the signed-in user or writes a 401.
func (h *handler) identity(c *gin.Context) (session.Identity, bool) {
	id, ok := h.Sessions.Current()
	if !ok {
		writeError(c, checkout.ErrNotAuthenticated)
	}
	return id, ok
}
