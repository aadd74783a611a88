// Package home serves the landing, help and not-found pages.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// SetupRoutes registers the home feature routes.
func SetupRoutes(router chi.Router, d *common.Deps) {
	handlers := NewHandlers(d)

	router.Get("/", handlers.Index)
	router.Get("/help", handlers.Help)
	router.Get("/404", handlers.NotFound)
}
