// Package auth serves login, registration and logout.
package auth

import (
	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// SetupRoutes registers the auth feature routes.
func SetupRoutes(router chi.Router, d *common.Deps) {
	handlers := NewHandlers(d)

	router.Get("/login", handlers.LoginPage)
	router.Post("/login", handlers.Login)
	router.Get("/register", handlers.RegisterPage)
	router.Post("/register", handlers.Register)
	router.Post("/logout", handlers.Logout)
}
