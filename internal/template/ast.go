// Package template implements the URL template language used by bookmark
// commands. A template is literal text interleaved with {variable}
// expressions; each variable may carry an optional marker, a default value,
// and a pipeline of value transformations ({q|trim|encode}).
package template

// Part is the interface for template parts.
type Part interface {
	part() // marker method to restrict implementation
}

// Literal is verbatim text passed through unchanged.
type Literal struct {
	Text string
}

func (*Literal) part() {}

// Variable is a {name} expression with its modifiers and pipeline.
type Variable struct {
	Name       string
	Optional   bool
	Default    string
	HasDefault bool
	Pipelines  []PipelineOp
}

func (*Variable) part() {}

// Required reports whether the variable must be supplied by the caller.
// A variable with a default is implicitly non-required.
func (v *Variable) Required() bool {
	return !v.Optional && !v.HasDefault
}

// PipelineKind identifies a pipeline operation.
type PipelineKind int

// PipelineKind constants for the closed set of pipeline operations.
const (
	PipeEncode   PipelineKind = iota // encode
	PipeNoEncode                     // !encode
	PipeTrim                         // trim
	PipeOptions                      // options[a,b][strict]
	PipeMap                          // map[k:v,...]
)

func (k PipelineKind) String() string {
	switch k {
	case PipeEncode:
		return "encode"
	case PipeNoEncode:
		return "!encode"
	case PipeTrim:
		return "trim"
	case PipeOptions:
		return "options"
	case PipeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Mapping is a single key:value pair of a map pipeline.
type Mapping struct {
	Key   string
	Value string
}

// PipelineOp is one step of a variable's pipeline. Kind discriminates the
// variant; Values/Strict are set for options, Mappings for map.
type PipelineOp struct {
	Kind     PipelineKind
	Values   []string
	Strict   bool
	Mappings []Mapping
}

// Template is a parsed URL template. It is immutable after parse and safe
// for concurrent use.
type Template struct {
	Parts []Part
}

// Variables returns all variable expressions in template order.
func (t *Template) Variables() []*Variable {
	var vars []*Variable
	for _, p := range t.Parts {
		if v, ok := p.(*Variable); ok {
			vars = append(vars, v)
		}
	}
	return vars
}
