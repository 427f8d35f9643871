// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"packwise/internal/http/handlers"
	"packwise/internal/http/middleware"
)

// NewRouter wires the API surface. The chat endpoint runs one dialogue turn;
// the product endpoint serves lookups for the recommendation cards.
func NewRouter(advisor handlers.Advisor, products handlers.ProductSource) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	chatHandler := handlers.NewChatHandler(advisor)
	r.POST("/api/chat", chatHandler.Chat)

	productHandler := handlers.NewProductHandler(products)
	r.GET("/api/products/:id", productHandler.Get)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
