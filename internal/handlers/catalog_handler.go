package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

// relatedLimit is how many related products the product page shows.
const relatedLimit = 4

// listProducts serves GET /api/products?q=&category=&min=&max=&sort=
func (h *handler) listProducts(c *gin.Context) {
	q := catalog.Query{
		Text:       c.Query("q"),
		Categories: c.QueryArray("category"),
		Sort:       c.DefaultQuery("sort", catalog.SortFeatured),
	}
	for param, dst := range map[string]**decimal.Decimal{"min": &q.MinPrice, "max": &q.MaxPrice} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_price_bound", "param": param})
			return
		}
		*dst = &d
	}
	c.JSON(http.StatusOK, h.Catalog.Filter(q))
}

func (h *handler) getProduct(c *gin.Context) {
	p, ok := h.Catalog.GetByID(c.Param("id"))
	if !ok {
		writeError(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) relatedProducts(c *gin.Context) {
	if _, ok := h.Catalog.GetByID(c.Param("id")); !ok {
		writeError(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, h.Catalog.Related(c.Param("id"), relatedLimit))
}

func (h *handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Categories())
}

func (h *handler) search(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Search(c.Query("q")))
}
