package auth

import (
	"net/http"
	"strings"

	"github.com/jrodal98/brunnylol/internal/auth"
	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// Handlers provides HTTP handlers for the auth feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *common.Deps) *Handlers {
	return &Handlers{deps: d}
}

// LoginPage renders the login form.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.deps.Render(w, http.StatusOK, "login.html", map[string]any{})
}

// Login verifies the credentials and opens a session. Failures re-render the
// form without revealing whether the username exists.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	user, hash, err := h.deps.Store.UserByUsername(r.Context(), username)
	if err != nil || !auth.VerifyPassword(hash, password) {
		h.deps.Render(w, http.StatusUnauthorized, "login.html", map[string]any{
			"Username": username,
			"Error":    "invalid username or password",
		})
		return
	}

	if err := h.deps.SignIn(w, r, user.ID); err != nil {
		h.deps.Logger.Error("failed to open session", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.deps.Render(w, http.StatusOK, "register.html", map[string]any{})
}

// Register creates an account and signs it in. The first account registered
// becomes the admin.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	confirm := r.PostForm.Get("confirm_password")

	renderError := func(msg string) {
		h.deps.Render(w, http.StatusBadRequest, "register.html", map[string]any{
			"Username": username,
			"Error":    msg,
		})
	}

	if err := auth.ValidateUsername(username); err != nil {
		renderError(err.Error())
		return
	}
	if err := auth.ValidatePassword(password); err != nil {
		renderError(err.Error())
		return
	}
	if password != confirm {
		renderError("passwords do not match")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.deps.Logger.Error("failed to hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user, err := h.deps.Store.CreateUser(r.Context(), username, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			renderError("username is taken")
			return
		}
		h.deps.Logger.Error("failed to create user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := h.deps.SignIn(w, r, user.ID); err != nil {
		h.deps.Logger.Error("failed to open session", "user_id", user.ID, "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout closes the session and returns home.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.deps.SignOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
