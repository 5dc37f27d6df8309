// Package http exposes the library, search and stats services as a JSON API.
// Controllers hold no business logic; every rule lives in the services they
// delegate to.
package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the controller dependencies so tests can wire mock
// services without touching the network or the real database.
type RouterConfig struct {
	Books  *BooksController
	Search *SearchController
	Stats  *StatsController
	Health *HealthController
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", cfg.Health.Status)
		api.GET("/search", cfg.Search.Search)
		api.GET("/stats", cfg.Stats.GetStats)

		api.GET("/books", cfg.Books.ListBooks)
		api.POST("/books", cfg.Books.AddManual)
		api.POST("/books/external", cfg.Books.AddFromSearch)
		api.GET("/books/:id", cfg.Books.GetBook)
		api.DELETE("/books/:id", cfg.Books.DeleteBook)
		api.PATCH("/books/:id/progress", cfg.Books.UpdateProgress)
		api.PATCH("/books/:id/status", cfg.Books.SetStatus)
		api.POST("/books/:id/quotes", cfg.Books.AddQuote)
		api.POST("/books/:id/notes", cfg.Books.AddNote)
		api.POST("/books/:id/sessions", cfg.Books.RecordSession)
		api.GET("/books/:id/sessions", cfg.Books.ListSessions)
	}

	return router
}
