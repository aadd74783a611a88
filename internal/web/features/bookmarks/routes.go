// Package bookmarks is the authenticated JSON API for managing bookmarks:
// CRUD, YAML import/export, disabling globals and the default alias.
package bookmarks

import (
	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// SetupRoutes registers the bookmarks API routes. Everything here requires a
// signed-in user.
func SetupRoutes(router chi.Router, d *common.Deps) {
	handlers := NewHandlers(d)

	router.Route("/api", func(r chi.Router) {
		r.Use(d.RequireUser)

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", handlers.List)
			r.Post("/", handlers.Create)
			r.Put("/{id}", handlers.Update)
			r.Delete("/{id}", handlers.Delete)
			r.Get("/export", handlers.Export)
			r.Post("/import", handlers.Import)
		})

		r.Post("/globals/{alias}/disable", handlers.DisableGlobal)
		r.Delete("/globals/{alias}/disable", handlers.EnableGlobal)
		r.Put("/settings/default-alias", handlers.SetDefaultAlias)
	})
}
