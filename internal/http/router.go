package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	books := NewBooksController(cfg.Inventory, cfg.Kinds)
	booksGroup := api.Group("/books")
	{
		booksGroup.GET("", books.List)
		booksGroup.POST("", books.Create)
		booksGroup.DELETE("", books.DeleteAll)
		booksGroup.GET("/:id", books.Get)
		booksGroup.PATCH("/:id", books.Update)
		booksGroup.DELETE("/:id", books.Delete)
		booksGroup.POST("/:id/sale", books.Sell)
		booksGroup.POST("/:id/restock", books.Restock)
	}

	if cfg.Hub != nil {
		events := NewEventsController(cfg.Hub)
		api.GET("/events", events.Stream)
	}

	return router
}
