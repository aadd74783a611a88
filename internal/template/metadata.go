package template

// TemplateMetadata is a serializable summary of a template's variables,
// persisted alongside the template source so callers can render an input
// form without re-parsing.
type TemplateMetadata struct {
	Variables []VariableMetadata `json:"variables" yaml:"variables"`
}

// VariableMetadata is the persistable projection of one variable.
type VariableMetadata struct {
	Name     string   `json:"name" yaml:"name"`
	Optional bool     `json:"is_optional" yaml:"is_optional"`
	Default  string   `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Strict   bool     `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// Metadata derives the persistable variable summary from a parsed template.
func Metadata(t *Template) *TemplateMetadata {
	meta := &TemplateMetadata{}
	for _, v := range t.Variables() {
		options, strict := optionsOf(v)
		meta.Variables = append(meta.Variables, VariableMetadata{
			Name:     v.Name,
			Optional: v.Optional,
			Default:  v.Default,
			Options:  options,
			Strict:   strict,
		})
	}
	return meta
}

// optionsOf extracts the first options pipeline of a variable, if any.
func optionsOf(v *Variable) ([]string, bool) {
	for _, op := range v.Pipelines {
		if op.Kind == PipeOptions {
			return op.Values, op.Strict
		}
	}
	return nil, false
}
