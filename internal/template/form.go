package template

// FormVariable describes one input of an interactive variable-collection
// form.
type FormVariable struct {
	Name         string
	Required     bool
	DefaultValue string
	CurrentValue string
	Options      []string
	Strict       bool
}

// BuildForm assembles form inputs for a template's variables. The url
// builtin is skipped (it is populated from the bookmark's base URL), and
// prefilled values become the current values of their inputs. meta may be
// nil; it is consulted for variables the parsed pipelines do not constrain.
func BuildForm(t *Template, meta *TemplateMetadata, prefilled map[string]string) []FormVariable {
	var form []FormVariable

	for _, v := range t.Variables() {
		if v.Name == BuiltinURL {
			continue
		}

		options, strict := optionsOf(v)
		if options == nil && meta != nil {
			for i := range meta.Variables {
				if meta.Variables[i].Name == v.Name {
					options, strict = meta.Variables[i].Options, meta.Variables[i].Strict
					break
				}
			}
		}

		form = append(form, FormVariable{
			Name:         v.Name,
			Required:     v.Required(),
			DefaultValue: v.Default,
			CurrentValue: prefilled[v.Name],
			Options:      options,
			Strict:       strict,
		})
	}

	return form
}
