package home

import (
	"net/http"
	"sort"

	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *common.Deps) *Handlers {
	return &Handlers{deps: d}
}

// Index renders the landing page with the search box.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.deps.Render(w, http.StatusOK, "index.html", map[string]any{
		"User": h.deps.CurrentUser(r),
	})
}

// helpEntry is one row of the alias table.
type helpEntry struct {
	Alias       string
	Description string
}

// Help lists every alias visible to the requester: the globals minus their
// disabled set, shadowed by their own bookmarks.
func (h *Handlers) Help(w http.ResponseWriter, r *http.Request) {
	user := h.deps.CurrentUser(r)

	visible := make(map[string]string)
	for alias, cmd := range h.deps.Cache.Commands() {
		visible[alias] = cmd.Description
	}

	if user != nil {
		if disabled, err := h.deps.Store.DisabledAliases(r.Context(), user.ID); err == nil {
			for alias := range disabled {
				delete(visible, alias)
			}
		}
		if own, err := h.deps.Store.UserBookmarks(r.Context(), user.ID); err == nil {
			for _, b := range own {
				visible[b.Alias] = b.Description
			}
		}
	}

	entries := make([]helpEntry, 0, len(visible))
	for alias, description := range visible {
		entries = append(entries, helpEntry{Alias: alias, Description: description})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Alias < entries[j].Alias })

	h.deps.Render(w, http.StatusOK, "help.html", map[string]any{
		"User":    user,
		"Entries": entries,
	})
}

// NotFound renders the unknown-alias page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.deps.Render(w, http.StatusNotFound, "notfound.html", map[string]any{
		"Alias": r.URL.Query().Get("alias"),
	})
}
