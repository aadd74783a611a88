package search

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jrodal98/brunnylol/internal/command"
	"github.com/jrodal98/brunnylol/internal/redirect"
	"github.com/jrodal98/brunnylol/internal/template"
	"github.com/jrodal98/brunnylol/internal/web/features/common"
)

// Handlers provides HTTP handlers for the search feature.
type Handlers struct {
	deps     *common.Deps
	resolver *template.Resolver
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *common.Deps) *Handlers {
	return &Handlers{deps: d, resolver: template.NewResolver()}
}

// Search resolves the q parameter into a redirect. An unknown alias renders
// the not-found page, a query the target command cannot satisfy is a 400.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	user := common.RedirectUser(h.deps.CurrentUser(r))

	res, err := h.deps.Redirect.Resolve(r.Context(), q, user, r.URL.Query().Get("default"))
	if err != nil {
		var notFound *redirect.NotFoundError
		var badRequest *redirect.BadRequestError
		switch {
		case errors.As(err, &notFound):
			alias, _, _ := strings.Cut(strings.TrimSpace(q), " ")
			h.deps.Render(w, http.StatusNotFound, "notfound.html", map[string]any{"Alias": alias})
		case errors.As(err, &badRequest):
			http.Error(w, badRequest.Reason, http.StatusBadRequest)
		default:
			h.deps.Logger.Error("redirect resolution failed", "query", q, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, res.Location, http.StatusSeeOther)
}

// FormPage renders the variable-collection form for a command. Query
// parameters pre-fill matching inputs. A plain bookmark has nothing to
// collect and redirects straight to its URL.
func (h *Handlers) FormPage(w http.ResponseWriter, r *http.Request) {
	path := formPath(r)
	user := common.RedirectUser(h.deps.CurrentUser(r))

	cmd, err := h.deps.Redirect.Command(r.Context(), path, user)
	if err != nil {
		h.deps.Render(w, http.StatusNotFound, "notfound.html", map[string]any{"Alias": strings.Join(path, " ")})
		return
	}

	if cmd.Kind == command.KindVariable && cmd.Template == nil {
		http.Redirect(w, r, cmd.BaseURL, http.StatusSeeOther)
		return
	}

	prefill := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			prefill[key] = values[0]
		}
	}

	h.renderForm(w, http.StatusOK, path, cmd, prefill, "")
}

// FormSubmit binds the submitted values onto the command's template and
// redirects to the result. Unresolvable submissions re-render the form with
// the values kept and the failure shown.
func (h *Handlers) FormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	path := formPath(r)
	user := common.RedirectUser(h.deps.CurrentUser(r))

	cmd, err := h.deps.Redirect.Command(r.Context(), path, user)
	if err != nil {
		h.deps.Render(w, http.StatusNotFound, "notfound.html", map[string]any{"Alias": strings.Join(path, " ")})
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	target := cmd
	if cmd.Kind == command.KindNested {
		child, ok := cmd.Children[values["alias"]]
		if !ok {
			h.renderForm(w, http.StatusBadRequest, path, cmd, values, "pick one of the listed sub-aliases")
			return
		}
		target = child
	}

	if target.Template == nil {
		http.Redirect(w, r, target.BaseURL, http.StatusSeeOther)
		return
	}

	vars := make(map[string]string, len(values)+1)
	for k, v := range values {
		if v != "" {
			vars[k] = v
		}
	}
	vars[template.BuiltinURL] = target.BaseURL

	url, err := h.resolver.Resolve(target.Template, vars)
	if err != nil {
		h.renderForm(w, http.StatusBadRequest, path, cmd, values, err.Error())
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// renderForm builds the form inputs for a command. Nested commands get a
// sub-alias picker plus a free-text query; variable commands get one input
// per template variable.
func (h *Handlers) renderForm(w http.ResponseWriter, status int, path []string, cmd *command.Command, prefill map[string]string, errMsg string) {
	data := map[string]any{
		"Path":        strings.Join(path, " "),
		"Description": cmd.Description,
		"Error":       errMsg,
	}

	if cmd.Kind == command.KindNested {
		aliases := make([]string, 0, len(cmd.Children))
		for alias := range cmd.Children {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		data["Fields"] = []template.FormVariable{
			{Name: "alias", Required: true, Options: aliases, Strict: true, CurrentValue: prefill["alias"]},
			{Name: "query", CurrentValue: prefill["query"]},
		}
	} else {
		data["Fields"] = template.BuildForm(cmd.Template, nil, prefill)
	}

	h.deps.Render(w, status, "form.html", data)
}

// formPath splits the wildcard tail of /f/* into path segments.
func formPath(r *http.Request) []string {
	var path []string
	for _, seg := range strings.Split(chi.URLParam(r, "*"), "/") {
		if seg != "" {
			path = append(path, seg)
		}
	}
	return path
}
