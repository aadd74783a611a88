// Package search serves the redirect endpoint browsers point their search
// keyword at, and the variable-collection forms it falls back to.
package search

import (
	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// SetupRoutes registers the search feature routes.
func SetupRoutes(router chi.Router, d *common.Deps) {
	handlers := NewHandlers(d)

	router.Get("/search", handlers.Search)
	router.Get("/f/*", handlers.FormPage)
	router.Post("/f/*", handlers.FormSubmit)
}
