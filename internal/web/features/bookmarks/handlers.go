package bookmarks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/store"
	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// maxImportSize bounds uploaded YAML bodies.
const maxImportSize = 1 << 20

// Handlers provides HTTP handlers for the bookmarks API.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *common.Deps) *Handlers {
	return &Handlers{deps: d}
}

// payload is the JSON shape of a bookmark in the API. It mirrors the YAML
// import/export format, plus the id the mutation endpoints key on.
type payload struct {
	ID          int64     `json:"id,omitempty"`
	Alias       string    `json:"alias"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Command     string    `json:"command,omitempty"`
	Encode      *bool     `json:"encode,omitempty"`
	Nested      []payload `json:"nested,omitempty"`
}

// List returns the caller's bookmarks.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	bookmarks, err := h.deps.Store.UserBookmarks(r.Context(), user.ID)
	if err != nil {
		h.deps.Logger.Error("failed to list bookmarks", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}

	out := make([]payload, 0, len(bookmarks))
	for i := range bookmarks {
		out = append(out, toPayload(&bookmarks[i]))
	}
	h.deps.JSON(w, http.StatusOK, out)
}

// Create adds a bookmark for the caller. Malformed templates are a 400,
// alias collisions a 409.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	var p payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if p.Alias == "" || p.URL == "" {
		h.deps.JSONError(w, http.StatusBadRequest, "alias and url are required")
		return
	}

	b := fromPayload(p, &user.ID)
	id, err := h.deps.Store.CreateBookmark(r.Context(), b)
	switch {
	case err == nil:
		p.ID = id
		h.deps.JSON(w, http.StatusCreated, p)
	case strings.Contains(err.Error(), "UNIQUE constraint"):
		h.deps.JSONError(w, http.StatusConflict, "alias already exists: '"+p.Alias+"'")
	case strings.Contains(err.Error(), "invalid template"):
		h.deps.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		h.deps.Logger.Error("failed to create bookmark", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to create bookmark")
	}
}

// Update rewrites one of the caller's bookmarks.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "invalid bookmark id")
		return
	}

	var p payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	b := fromPayload(p, &user.ID)
	b.ID = id
	err = h.deps.Store.UpdateBookmark(r.Context(), b)
	switch {
	case err == nil:
		p.ID = id
		h.deps.JSON(w, http.StatusOK, p)
	case errors.Is(err, store.ErrNotFound):
		h.deps.JSONError(w, http.StatusNotFound, "bookmark not found")
	case strings.Contains(err.Error(), "invalid template"):
		h.deps.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		h.deps.Logger.Error("failed to update bookmark", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to update bookmark")
	}
}

// Delete removes one of the caller's bookmarks.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "invalid bookmark id")
		return
	}

	err = h.deps.Store.DeleteBookmark(r.Context(), id, &user.ID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		h.deps.JSONError(w, http.StatusNotFound, "bookmark not found")
	default:
		h.deps.Logger.Error("failed to delete bookmark", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to delete bookmark")
	}
}

// Export serializes the caller's bookmarks as YAML.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	out, err := h.deps.Store.ExportYAML(r.Context(), &user.ID)
	if err != nil {
		h.deps.Logger.Error("failed to export bookmarks", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to export bookmarks")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.yaml"`)
	_, _ = w.Write(out)
}

// Import creates bookmarks from an uploaded YAML document. Admins may pass
// global=true to import into the shared set instead.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	target := &user.ID
	if r.URL.Query().Get("global") == "true" {
		if !user.IsAdmin {
			h.deps.JSONError(w, http.StatusForbidden, "admin required for global import")
			return
		}
		target = nil
	}

	result, err := h.deps.Store.ImportYAML(r.Context(), body, target)
	if err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if target == nil {
		if err := h.deps.Cache.Reload(r.Context()); err != nil {
			h.deps.Logger.Error("failed to reload global commands", "error", err)
		}
	}

	h.deps.JSON(w, http.StatusOK, map[string]any{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
	})
}

// DisableGlobal hides a global alias from the caller.
func (h *Handlers) DisableGlobal(w http.ResponseWriter, r *http.Request) {
	h.setGlobalDisabled(w, r, true)
}

// EnableGlobal makes a previously hidden global alias visible again.
func (h *Handlers) EnableGlobal(w http.ResponseWriter, r *http.Request) {
	h.setGlobalDisabled(w, r, false)
}

func (h *Handlers) setGlobalDisabled(w http.ResponseWriter, r *http.Request, disabled bool) {
	user := common.UserFrom(r.Context())
	alias := chi.URLParam(r, "alias")

	if _, ok := h.deps.Cache.Commands()[alias]; !ok {
		h.deps.JSONError(w, http.StatusNotFound, "unknown global alias: '"+alias+"'")
		return
	}

	if err := h.deps.Store.SetGlobalDisabled(r.Context(), user.ID, alias, disabled); err != nil {
		h.deps.Logger.Error("failed to toggle global alias", "user_id", user.ID, "alias", alias, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to toggle global alias")
		return
	}
	h.deps.JSON(w, http.StatusOK, map[string]any{"alias": alias, "disabled": disabled})
}

// SetDefaultAlias stores the caller's preferred fallback alias. An empty
// alias clears the preference.
func (h *Handlers) SetDefaultAlias(w http.ResponseWriter, r *http.Request) {
	user := common.UserFrom(r.Context())

	var body struct {
		DefaultAlias string `json:"default_alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.deps.JSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.deps.Store.SetDefaultAlias(r.Context(), user.ID, body.DefaultAlias); err != nil {
		h.deps.Logger.Error("failed to set default alias", "user_id", user.ID, "error", err)
		h.deps.JSONError(w, http.StatusInternalServerError, "failed to set default alias")
		return
	}
	h.deps.JSON(w, http.StatusOK, map[string]string{"default_alias": body.DefaultAlias})
}

func toPayload(b *store.Bookmark) payload {
	p := payload{
		ID:          b.ID,
		Alias:       b.Alias,
		Description: b.Description,
		URL:         b.URL,
		Command:     b.TemplateSource,
	}
	if !b.EncodeQuery {
		encode := false
		p.Encode = &encode
	}
	for _, n := range b.Nested {
		child := payload{
			ID:          n.ID,
			Alias:       n.Alias,
			Description: n.Description,
			URL:         n.URL,
			Command:     n.TemplateSource,
		}
		if !n.EncodeQuery {
			encode := false
			child.Encode = &encode
		}
		p.Nested = append(p.Nested, child)
	}
	return p
}

func fromPayload(p payload, userID *int64) *store.Bookmark {
	kind := store.KindVariable
	if len(p.Nested) > 0 {
		kind = store.KindNested
	}

	b := &store.Bookmark{
		UserID:         userID,
		Alias:          p.Alias,
		Kind:           kind,
		URL:            p.URL,
		Description:    p.Description,
		TemplateSource: p.Command,
		EncodeQuery:    p.Encode == nil || *p.Encode,
	}
	for _, n := range p.Nested {
		b.Nested = append(b.Nested, store.NestedBookmark{
			Alias:          n.Alias,
			URL:            n.URL,
			Description:    n.Description,
			TemplateSource: n.Command,
			EncodeQuery:    n.Encode == nil || *n.Encode,
		})
	}
	return b
}
