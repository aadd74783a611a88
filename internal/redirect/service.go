package redirect

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jrodal98/brunnylol/internal/command"
	"github.com/jrodal98/brunnylol/internal/template"
)

// User carries the per-request identity the service needs: whose bookmarks
// to consult and their preferred fallback alias.
type User struct {
	ID           int64
	DefaultAlias string
}

// Source loads a user's personal command set and the set of global aliases
// they have disabled.
type Source interface {
	UserCommands(ctx context.Context, userID int64) (map[string]*command.Command, error)
	DisabledAliases(ctx context.Context, userID int64) (map[string]bool, error)
}

// GlobalProvider supplies the shared global command set.
type GlobalProvider interface {
	Commands() map[string]*command.Command
}

// Result is a resolved redirect destination. External reports whether
// Location is a full http(s) URL; otherwise it is an app-internal path such
// as a variable form.
type Result struct {
	External bool
	Location string
}

// NotFoundError is returned when a query names no known alias or nested
// path.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

// BadRequestError is returned when a query uses a mode the target command
// cannot satisfy.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

// Service resolves raw search queries into redirect destinations. It is
// safe for concurrent use.
type Service struct {
	source       Source
	globals      GlobalProvider
	resolver     *template.Resolver
	defaultAlias string
	log          *slog.Logger
}

// NewService creates a redirect service. defaultAlias is the app-wide
// fallback for unknown aliases; it takes precedence over a user's own
// default when both are set.
func NewService(source Source, globals GlobalProvider, defaultAlias string, log *slog.Logger) *Service {
	return &Service{
		source:       source,
		globals:      globals,
		resolver:     template.NewResolver(),
		defaultAlias: defaultAlias,
		log:          log,
	}
}

// Resolve turns a raw search query into a redirect destination. user may be
// nil for anonymous requests, which see only global commands. defaultAlias
// overrides the service-wide fallback for this request; pass "" to keep it.
func (s *Service) Resolve(ctx context.Context, query string, user *User, defaultAlias string) (Result, error) {
	path, mode, remaining := ParseNestedPath(query)
	if len(path) == 0 {
		return Result{}, &NotFoundError{Reason: "empty query"}
	}

	userCmds, disabled := s.loadUserState(ctx, user)

	// Multi-segment paths and suffixed single aliases share the nested
	// handler; the plain path below only ever sees direct mode.
	if len(path) > 1 || mode != ModeDirect {
		return s.resolveNested(path, mode, remaining, userCmds, disabled)
	}

	alias := path[0]
	cmd, ok := s.lookup(alias, userCmds, disabled)
	if !ok {
		return s.resolveDefault(alias, query, defaultAlias, user, userCmds, disabled)
	}

	return s.resolveDirect(alias, cmd, remaining)
}

// loadUserState fetches the user's commands and disabled global aliases.
// Load failures degrade to global-only resolution rather than failing the
// redirect.
func (s *Service) loadUserState(ctx context.Context, user *User) (map[string]*command.Command, map[string]bool) {
	if user == nil {
		return nil, nil
	}

	cmds, err := s.source.UserCommands(ctx, user.ID)
	if err != nil {
		s.log.Warn("loading user commands failed", "user_id", user.ID, "error", err)
		cmds = nil
	}
	disabled, err := s.source.DisabledAliases(ctx, user.ID)
	if err != nil {
		s.log.Warn("loading disabled aliases failed", "user_id", user.ID, "error", err)
		disabled = nil
	}
	return cmds, disabled
}

// lookup finds an alias, preferring the user's own commands; global
// commands the user disabled are invisible.
func (s *Service) lookup(alias string, userCmds map[string]*command.Command, disabled map[string]bool) (*command.Command, bool) {
	if cmd, ok := userCmds[alias]; ok {
		return cmd, true
	}
	if disabled[alias] {
		return nil, false
	}
	cmd, ok := s.globals.Commands()[alias]
	return cmd, ok
}

// resolveDirect handles an unsuffixed single-alias query.
func (s *Service) resolveDirect(alias string, cmd *command.Command, query string) (Result, error) {
	if cmd.Kind == command.KindNested {
		url := s.directURL(cmd, query)
		if url == "" {
			return Result{}, &NotFoundError{Reason: "unknown nested path under alias '" + alias + "'"}
		}
		return classify(url), nil
	}

	if strings.TrimSpace(query) == "" || cmd.Template == nil {
		return classify(cmd.BaseURL), nil
	}

	vars := bindPositional(cmd, query)
	if missing := s.resolver.MissingVariables(cmd.Template, vars); len(missing) > 0 {
		return Result{Location: "/f/" + alias}, nil
	}

	url, err := s.resolver.Resolve(cmd.Template, vars)
	if err != nil {
		return Result{Location: "/f/" + alias + "?" + buildQueryString(vars)}, nil
	}
	return classify(url), nil
}

// resolveDefault falls back to the default alias when the query's first
// word is not a known alias; the whole query becomes that command's input.
// Precedence: per-request override, then service config, then the user's
// own preference.
func (s *Service) resolveDefault(alias, query, override string, user *User, userCmds map[string]*command.Command, disabled map[string]bool) (Result, error) {
	def := override
	if def == "" {
		def = s.defaultAlias
	}
	if def == "" && user != nil {
		def = user.DefaultAlias
	}
	if def == "" {
		return Result{}, &NotFoundError{Reason: "unknown alias: '" + alias + "'"}
	}

	cmd, ok := s.lookup(def, userCmds, disabled)
	if !ok {
		return Result{Location: "/404?alias=" + template.Escape(alias)}, nil
	}
	url := s.directURL(cmd, query)
	if url == "" {
		return Result{}, &NotFoundError{Reason: "unknown alias: '" + alias + "'"}
	}
	return classify(url), nil
}

// Command finds the command a form path addresses, checking the user's own
// bookmarks before the globals.
func (s *Service) Command(ctx context.Context, path []string, user *User) (*command.Command, error) {
	if len(path) == 0 {
		return nil, &NotFoundError{Reason: "empty path"}
	}

	userCmds, disabled := s.loadUserState(ctx, user)
	root, ok := s.lookup(path[0], userCmds, disabled)
	if !ok {
		return nil, &NotFoundError{Reason: "unknown alias: '" + path[0] + "'"}
	}
	final, ok := root.Descend(path[1:])
	if !ok {
		return nil, &NotFoundError{Reason: "unknown nested path: '" + strings.Join(path[1:], "/") + "'"}
	}
	return final, nil
}

// resolveNested handles multi-segment paths and mode-suffixed queries.
func (s *Service) resolveNested(path []string, mode UsageMode, remaining string, userCmds map[string]*command.Command, disabled map[string]bool) (Result, error) {
	root, ok := s.lookup(path[0], userCmds, disabled)
	if !ok {
		return Result{}, &NotFoundError{Reason: "unknown alias: '" + path[0] + "'"}
	}

	final, ok := root.Descend(path[1:])
	if !ok {
		return Result{}, &NotFoundError{Reason: "unknown nested path: '" + strings.Join(path[1:], "/") + "'"}
	}

	switch {
	case mode == ModeForm || mode == ModeChained:
		formURL := "/f/" + strings.Join(path, "/")
		if mode == ModeChained && remaining != "" {
			vars, _ := ParseNamedVariables(remaining)
			if len(vars) > 0 {
				formURL += "?" + buildQueryString(vars)
			}
		}
		return Result{Location: formURL}, nil

	case mode == ModeNamed:
		if final.Kind == command.KindNested {
			return Result{}, &BadRequestError{Reason: "named mode ($) requires a command with variables"}
		}
		return s.resolveNamed(path, final, remaining)

	default: // direct
		url := s.directURL(final, remaining)
		if url == "" {
			return Result{}, &NotFoundError{Reason: "failed to resolve nested command: '" + strings.Join(path, "/") + "'"}
		}
		return classify(url), nil
	}
}

// resolveNamed binds $key=value pairs onto the command's template. Unbound
// free text becomes the query variable; unresolvable templates fall back to
// the variable form pre-filled with whatever did bind.
func (s *Service) resolveNamed(path []string, cmd *command.Command, query string) (Result, error) {
	if cmd.Template == nil {
		return classify(cmd.BaseURL), nil
	}

	vars, rem := ParseNamedVariables(query)
	if rem != "" {
		vars[template.BuiltinQuery] = rem
	}
	vars[template.BuiltinURL] = cmd.BaseURL

	formURL := "/f/" + strings.Join(path, "/") + "?" + buildQueryString(vars)

	if missing := s.resolver.MissingVariables(cmd.Template, vars); len(missing) > 0 {
		return Result{Location: formURL}, nil
	}
	url, err := s.resolver.Resolve(cmd.Template, vars)
	if err != nil {
		return Result{Location: formURL}, nil
	}
	return classify(url), nil
}

// directURL resolves a command against free-text input. Nested commands
// consume the first word as a child alias and recurse; variable commands
// bind positionally. An empty return means the input could not be resolved.
func (s *Service) directURL(cmd *command.Command, query string) string {
	switch cmd.Kind {
	case command.KindNested:
		head, rest, _ := strings.Cut(strings.TrimSpace(query), " ")
		child, ok := cmd.Children[head]
		if !ok {
			return ""
		}
		return s.directURL(child, rest)
	default:
		if strings.TrimSpace(query) == "" || cmd.Template == nil {
			return cmd.BaseURL
		}
		url, err := s.resolver.Resolve(cmd.Template, bindPositional(cmd, query))
		if err != nil {
			return ""
		}
		return url
	}
}

// bindPositional maps whitespace-separated query words onto the template's
// variables in declared order. A template whose only user variable is the
// query builtin receives the whole string unsplit; otherwise excess words
// are joined into query when the template declares it.
func bindPositional(cmd *command.Command, query string) map[string]string {
	vars := map[string]string{template.BuiltinURL: cmd.BaseURL}

	userVars := cmd.UserVariables()
	hasQuery := cmd.HasQueryVariable()

	if hasQuery && len(userVars) == 1 {
		vars[template.BuiltinQuery] = query
		return vars
	}
	if len(userVars) == 0 {
		return vars
	}

	words := strings.Fields(query)
	for i, v := range userVars {
		if i >= len(words) {
			break
		}
		vars[v.Name] = words[i]
	}
	if len(words) > len(userVars) && hasQuery {
		vars[template.BuiltinQuery] = strings.Join(words[len(userVars):], " ")
	}
	return vars
}

// buildQueryString encodes vars as a URL query string, excluding the url
// builtin. Keys are sorted so output is deterministic.
func buildQueryString(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		if k == template.BuiltinURL {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, template.Escape(k)+"="+template.Escape(vars[k]))
	}
	return strings.Join(pairs, "&")
}

func classify(url string) Result {
	external := strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
	return Result{External: external, Location: url}
}
