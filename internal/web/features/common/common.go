// Package common carries the dependencies and helpers shared by the web
// features.
package common

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/jrodal98/brunnylol/internal/redirect"
	"github.com/jrodal98/brunnylol/internal/store"
)

// SessionName is the cookie session holding the login state.
const SessionName = "brunnylol"

const sessionKeySessionID = "session_id"

type contextKey string

const userContextKey contextKey = "user"

// Deps bundles what every feature's handlers need.
type Deps struct {
	Store     *store.Store
	Cache     *store.Cache
	Redirect  *redirect.Service
	Sessions  sessions.Store
	Templates *template.Template
	Logger    *slog.Logger
}

// CurrentUser resolves the logged-in user from the session cookie, or nil.
func (d *Deps) CurrentUser(r *http.Request) *store.User {
	sess, err := d.Sessions.Get(r, SessionName)
	if err != nil {
		return nil
	}
	sessionID, ok := sess.Values[sessionKeySessionID].(string)
	if !ok || sessionID == "" {
		return nil
	}

	userID, err := d.Store.UserIDForSession(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	user, err := d.Store.UserByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// SignIn opens a database session for the user and binds it to the cookie.
func (d *Deps) SignIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	sessionID, err := d.Store.CreateSession(r.Context(), userID)
	if err != nil {
		return err
	}

	sess, _ := d.Sessions.Get(r, SessionName)
	sess.Values[sessionKeySessionID] = sessionID
	return sess.Save(r, w)
}

// SignOut deletes the database session and clears the cookie.
func (d *Deps) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := d.Sessions.Get(r, SessionName)
	if err != nil {
		return
	}
	if sessionID, ok := sess.Values[sessionKeySessionID].(string); ok && sessionID != "" {
		if err := d.Store.DeleteSession(r.Context(), sessionID); err != nil {
			d.Logger.Warn("failed to delete session", "error", err)
		}
	}
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// RequireUser rejects unauthenticated requests and stores the user in the
// request context for UserFrom.
func (d *Deps) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := d.CurrentUser(r)
		if user == nil {
			d.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// UserFrom returns the user RequireUser stored in the context, or nil.
func UserFrom(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey).(*store.User)
	return user
}

// Render writes an HTML template, logging render failures.
func (d *Deps) Render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := d.Templates.ExecuteTemplate(w, name, data); err != nil {
		// Status line is already out; all we can do is log.
		d.Logger.Error("template render failed", "template", name, "error", err)
	}
}

// JSON writes a JSON response.
func (d *Deps) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Logger.Error("json encode failed", "error", err)
	}
}

// JSONError writes a JSON error body.
func (d *Deps) JSONError(w http.ResponseWriter, status int, msg string) {
	d.JSON(w, status, map[string]string{"error": msg})
}

// RedirectUser adapts a stored user to the redirect service's view of it.
func RedirectUser(user *store.User) *redirect.User {
	if user == nil {
		return nil
	}
	return &redirect.User{ID: user.ID, DefaultAlias: user.DefaultAlias}
}
