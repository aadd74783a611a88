package template

import (
	"fmt"
	"strings"
)

// BuiltinURL is the reserved variable spliced in from a bookmark's base URL.
// It is never auto-encoded because it is expected to already be a
// well-formed URL.
const BuiltinURL = "url"

// BuiltinQuery is the reserved variable bound to the user's free-text query.
const BuiltinQuery = "query"

// Resolver substitutes variable values into a parsed template to produce
// the final URL. It is stateless apart from the operation registry and safe
// for concurrent use.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver with the built-in operation registry.
func NewResolver() *Resolver {
	return &Resolver{registry: NewRegistry()}
}

// Resolve substitutes vars into the template. Empty string values are
// treated as absent so optional fields submitted blank behave as "not
// provided". Resolution is fail-fast: the first missing required variable
// or strict options violation aborts with no partial output.
func (r *Resolver) Resolve(t *Template, vars map[string]string) (string, error) {
	var result strings.Builder

	for _, part := range t.Parts {
		switch p := part.(type) {
		case *Literal:
			result.WriteString(p.Text)
		case *Variable:
			value, ok := vars[p.Name]
			if value == "" {
				ok = false
			}
			if !ok && p.HasDefault {
				value, ok = p.Default, true
			}
			if !ok {
				if !p.Optional {
					return "", &MissingVariableError{Name: p.Name}
				}
				// Omitted optional contributes nothing. This can leave
				// doubled path separators (/path//file); callers depend on
				// the literal output.
				continue
			}

			resolved, err := r.applyPipelines(p, value)
			if err != nil {
				return "", err
			}
			result.WriteString(resolved)
		}
	}

	return result.String(), nil
}

// applyPipelines runs the variable's pipeline steps in declared order, then
// the default auto-encoding rule: encode unless an encode/!encode step was
// present or the variable is the url builtin.
func (r *Resolver) applyPipelines(v *Variable, value string) (string, error) {
	hasEncodingStep := false

	for _, op := range v.Pipelines {
		switch op.Kind {
		case PipeEncode:
			hasEncodingStep = true
			encoded, err := r.registry.Get("encode").Apply(value)
			if err != nil {
				return "", err
			}
			value = encoded
		case PipeNoEncode:
			hasEncodingStep = true
		case PipeTrim:
			trimmed, err := r.registry.Get("trim").Apply(value)
			if err != nil {
				return "", err
			}
			value = trimmed
		case PipeOptions:
			// Options never transforms, only constrains.
			if op.Strict && !contains(op.Values, value) {
				return "", &ConstraintError{Value: value, Allowed: op.Values}
			}
		case PipeMap:
			for _, m := range op.Mappings {
				if m.Key == value {
					value = m.Value
					break
				}
			}
		default:
			return "", fmt.Errorf("unhandled pipeline operation: %s", op.Kind)
		}
	}

	if !hasEncodingStep && v.Name != BuiltinURL {
		value = Escape(value)
	}
	return value, nil
}

// MissingVariables returns the names of required variables (not optional,
// no default) absent from vars, in template order. Callers use this to
// decide whether to prompt for input before attempting resolution.
func (r *Resolver) MissingVariables(t *Template, vars map[string]string) []string {
	var missing []string
	for _, v := range t.Variables() {
		if !v.Required() {
			continue
		}
		if _, ok := vars[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
