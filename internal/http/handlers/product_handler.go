// README: Product lookup handler.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"packwise/internal/modules/catalog"
)

// ProductSource is the catalog surface the handler needs. Satisfied by
// catalog.Store.
type ProductSource interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

type ProductHandler struct {
	products ProductSource
}

func NewProductHandler(products ProductSource) *ProductHandler {
	return &ProductHandler{products: products}
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, product)
}
