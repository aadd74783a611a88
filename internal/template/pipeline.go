package template

import (
	"net/url"
	"strings"
)

// Operation is a named value transformation applicable to a resolved
// variable value.
type Operation interface {
	Name() string
	Apply(value string) (string, error)
}

// encodeOp percent-encodes a value per URL query-component rules.
type encodeOp struct{}

func (encodeOp) Name() string { return "encode" }

func (encodeOp) Apply(value string) (string, error) {
	return Escape(value), nil
}

// trimOp strips leading and trailing whitespace.
type trimOp struct{}

func (trimOp) Name() string { return "trim" }

func (trimOp) Apply(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

// Registry is a lookup from operator name to operation. Only encode and
// trim are registry-resolved; options and map carry per-invocation arguments
// in the AST and are interpreted directly by the resolver.
type Registry struct {
	operations map[string]Operation
}

// NewRegistry creates a registry with the built-in operations registered.
func NewRegistry() *Registry {
	r := &Registry{operations: make(map[string]Operation)}
	r.Register(encodeOp{})
	r.Register(trimOp{})
	return r
}

// Register adds an operation under its canonical name.
func (r *Registry) Register(op Operation) {
	r.operations[op.Name()] = op
}

// Get returns the operation registered under name, or nil.
func (r *Registry) Get(name string) Operation {
	return r.operations[name]
}

// Escape percent-encodes value, keeping only RFC 3986 unreserved
// characters. Spaces become %20, not '+'.
func Escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
