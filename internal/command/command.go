// Package command models bookmark commands: the things an alias points at.
// A command is either a variable command (a URL template plus a fallback
// base URL) or a nested command grouping child commands under sub-aliases.
package command

import (
	"fmt"
	"strings"

	"github.com/jrodal98/brunnylol/internal/template"
)

// Kind discriminates command variants.
type Kind int

// Kind constants for the closed set of command variants.
const (
	KindVariable Kind = iota // URL template with base URL fallback
	KindNested               // children keyed by sub-alias
)

// Command is a closed tagged variant. Kind selects which fields are
// meaningful: Variable commands carry BaseURL/Source/Template, nested
// commands carry Children.
type Command struct {
	Kind        Kind
	Description string

	// Variable fields.
	BaseURL  string
	Source   string
	Template *template.Template

	// Nested fields.
	Children map[string]*Command
}

// NewVariable creates a variable command, parsing the template source
// eagerly so malformed templates are rejected before persistence. An empty
// source yields a command that always redirects to its base URL.
func NewVariable(baseURL, source, description string) (*Command, error) {
	cmd := &Command{
		Kind:        KindVariable,
		Description: description,
		BaseURL:     baseURL,
		Source:      source,
	}
	if source != "" {
		tmpl, err := template.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("invalid template %q: %w", source, err)
		}
		cmd.Template = tmpl
	}
	return cmd, nil
}

// NewNested creates an empty nested command.
func NewNested(description string) *Command {
	return &Command{
		Kind:        KindNested,
		Description: description,
		Children:    make(map[string]*Command),
	}
}

// AddChild registers a child command under a sub-alias.
func (c *Command) AddChild(alias string, child *Command) {
	if c.Children == nil {
		c.Children = make(map[string]*Command)
	}
	c.Children[alias] = child
}

// Descend walks a nested command along the given path segments. It returns
// the command itself for an empty path, and false when any segment is
// unknown or the walk hits a non-nested command early.
func (c *Command) Descend(path []string) (*Command, bool) {
	if len(path) == 0 {
		return c, true
	}
	if c.Kind != KindNested {
		return nil, false
	}
	child, ok := c.Children[path[0]]
	if !ok {
		return nil, false
	}
	return child.Descend(path[1:])
}

// HasQueryVariable reports whether a variable command's template declares
// the reserved query variable.
func (c *Command) HasQueryVariable() bool {
	if c.Template == nil {
		return false
	}
	for _, v := range c.Template.Variables() {
		if v.Name == template.BuiltinQuery {
			return true
		}
	}
	return false
}

// UserVariables returns the template's variables excluding the url builtin,
// in declared order. These are the variables a user can supply.
func (c *Command) UserVariables() []*template.Variable {
	if c.Template == nil {
		return nil
	}
	var vars []*template.Variable
	for _, v := range c.Template.Variables() {
		if v.Name != template.BuiltinURL {
			vars = append(vars, v)
		}
	}
	return vars
}

// String returns a short human-readable form for logs and CLI output.
func (c *Command) String() string {
	switch c.Kind {
	case KindNested:
		aliases := make([]string, 0, len(c.Children))
		for alias := range c.Children {
			aliases = append(aliases, alias)
		}
		return fmt.Sprintf("nested{%s}", strings.Join(aliases, ","))
	default:
		if c.Source != "" {
			return c.Source
		}
		return c.BaseURL
	}
}
