package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantParts int
		checkFunc func(t *testing.T, tmpl *Template)
	}{
		{
			name:      "literal and variable",
			input:     "https://example.com/{query}",
			wantParts: 2,
			checkFunc: func(t *testing.T, tmpl *Template) {
				lit, ok := tmpl.Parts[0].(*Literal)
				require.True(t, ok, "part[0]: expected Literal, got %T", tmpl.Parts[0])
				assert.Equal(t, "https://example.com/", lit.Text)

				v, ok := tmpl.Parts[1].(*Variable)
				require.True(t, ok, "part[1]: expected Variable, got %T", tmpl.Parts[1])
				assert.Equal(t, "query", v.Name)
				assert.False(t, v.Optional)
				assert.False(t, v.HasDefault)
			},
		},
		{
			name:      "optional variable",
			input:     "/path/{repo?}",
			wantParts: 2,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 1)
				assert.Equal(t, "repo", vars[0].Name)
				assert.True(t, vars[0].Optional)
			},
		},
		{
			name:      "variable with default",
			input:     "/path/{author=default}",
			wantParts: 2,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 1)
				assert.Equal(t, "author", vars[0].Name)
				require.True(t, vars[0].HasDefault)
				assert.Equal(t, "default", vars[0].Default)
				assert.False(t, vars[0].Required())
			},
		},
		{
			name:      "empty variable maps to query",
			input:     "https://example.com/search?q={}",
			wantParts: 2,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 1)
				assert.Equal(t, "query", vars[0].Name)
			},
		},
		{
			name:      "escaped braces collapse to literals",
			input:     "https://example.com/{{escaped}}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				lit, ok := tmpl.Parts[0].(*Literal)
				require.True(t, ok, "expected Literal, got %T", tmpl.Parts[0])
				assert.Equal(t, "https://example.com/{escaped}", lit.Text)
			},
		},
		{
			name:      "escape in the middle",
			input:     "a{{b}}c",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				lit, ok := tmpl.Parts[0].(*Literal)
				require.True(t, ok, "expected Literal, got %T", tmpl.Parts[0])
				assert.Equal(t, "a{b}c", lit.Text)
			},
		},
		{
			name:      "encode pipeline",
			input:     "{query|encode}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 1)
				require.Len(t, vars[0].Pipelines, 1)
				assert.Equal(t, PipeEncode, vars[0].Pipelines[0].Kind)
			},
		},
		{
			name:      "negated encode pipeline",
			input:     "{query|!encode}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars[0].Pipelines, 1)
				assert.Equal(t, PipeNoEncode, vars[0].Pipelines[0].Kind)
			},
		},
		{
			name:      "trim pipeline",
			input:     "{query|trim}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars[0].Pipelines, 1)
				assert.Equal(t, PipeTrim, vars[0].Pipelines[0].Kind)
			},
		},
		{
			name:      "multiple pipelines keep order",
			input:     "{query|trim|encode}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars[0].Pipelines, 2)
				assert.Equal(t, PipeTrim, vars[0].Pipelines[0].Kind)
				assert.Equal(t, PipeEncode, vars[0].Pipelines[1].Kind)
			},
		},
		{
			name:      "whitespace around delimiters",
			input:     "{ query | trim | encode }",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 1)
				assert.Equal(t, "query", vars[0].Name)
				assert.Len(t, vars[0].Pipelines, 2)
			},
		},
		{
			name:      "multiple variables in order",
			input:     "/{page}/{author}/{repo}",
			wantParts: 6,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars, 3)
				assert.Equal(t, "page", vars[0].Name)
				assert.Equal(t, "author", vars[1].Name)
				assert.Equal(t, "repo", vars[2].Name)
			},
		},
		{
			name:      "options list",
			input:     "{p|options[a,b,c]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				vars := tmpl.Variables()
				require.Len(t, vars[0].Pipelines, 1)
				op := vars[0].Pipelines[0]
				assert.Equal(t, PipeOptions, op.Kind)
				assert.Equal(t, []string{"a", "b", "c"}, op.Values)
				assert.False(t, op.Strict)
			},
		},
		{
			name:      "strict options",
			input:     "{p|options[a,b][strict]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				op := tmpl.Variables()[0].Pipelines[0]
				assert.Equal(t, []string{"a", "b"}, op.Values)
				assert.True(t, op.Strict)
			},
		},
		{
			name:      "map single pair",
			input:     "{var|map[cal:calendar]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				op := tmpl.Variables()[0].Pipelines[0]
				require.Equal(t, PipeMap, op.Kind)
				require.Len(t, op.Mappings, 1)
				assert.Equal(t, Mapping{Key: "cal", Value: "calendar"}, op.Mappings[0])
			},
		},
		{
			name:      "map preserves declaration order",
			input:     "{var|map[cal:calendar,sh:sheets,dc:docs]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				op := tmpl.Variables()[0].Pipelines[0]
				require.Len(t, op.Mappings, 3)
				assert.Equal(t, Mapping{Key: "cal", Value: "calendar"}, op.Mappings[0])
				assert.Equal(t, Mapping{Key: "sh", Value: "sheets"}, op.Mappings[1])
				assert.Equal(t, Mapping{Key: "dc", Value: "docs"}, op.Mappings[2])
			},
		},
		{
			name:      "map trims key and value whitespace",
			input:     "{var|map[ cal : calendar , sh : sheets ]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				op := tmpl.Variables()[0].Pipelines[0]
				require.Len(t, op.Mappings, 2)
				assert.Equal(t, Mapping{Key: "cal", Value: "calendar"}, op.Mappings[0])
				assert.Equal(t, Mapping{Key: "sh", Value: "sheets"}, op.Mappings[1])
			},
		},
		{
			name:      "map value may contain colons",
			input:     "{var|map[g:https://google.com,gh:https://github.com]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				op := tmpl.Variables()[0].Pipelines[0]
				require.Len(t, op.Mappings, 2)
				assert.Equal(t, Mapping{Key: "g", Value: "https://google.com"}, op.Mappings[0])
				assert.Equal(t, Mapping{Key: "gh", Value: "https://github.com"}, op.Mappings[1])
			},
		},
		{
			name:      "options chained with map",
			input:     "{var|options[calendar,sheets,docs]|map[cal:calendar]}",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				pipes := tmpl.Variables()[0].Pipelines
				require.Len(t, pipes, 2)
				assert.Equal(t, PipeOptions, pipes[0].Kind)
				assert.Len(t, pipes[0].Values, 3)
				assert.Equal(t, PipeMap, pipes[1].Kind)
			},
		},
		{
			name:      "no variables at all",
			input:     "https://example.com/fixed",
			wantParts: 1,
			checkFunc: func(t *testing.T, tmpl *Template) {
				assert.Empty(t, tmpl.Variables())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, tmpl.Parts, tt.wantParts)
			if tt.checkFunc != nil {
				tt.checkFunc(t, tmpl)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "lone closing brace",
			input:   "a}b",
			wantMsg: "unexpected closing brace",
		},
		{
			name:    "unterminated expression",
			input:   "https://example.com/{query",
			wantMsg: "end of input",
		},
		{
			name:    "invalid character in name",
			input:   "{que#ry}",
			wantMsg: "invalid character '#' in variable name",
		},
		{
			name:    "unknown pipeline operation",
			input:   "{q|upper}",
			wantMsg: "unknown pipeline operation: upper",
		},
		{
			name:    "negated trim",
			input:   "{q|!trim}",
			wantMsg: "cannot negate 'trim'",
		},
		{
			name:    "negated options",
			input:   "{q|!options[a]}",
			wantMsg: "cannot negate 'options'",
		},
		{
			name:    "negated map",
			input:   "{q|!map[a:b]}",
			wantMsg: "cannot negate 'map'",
		},
		{
			name:    "options without bracket",
			input:   "{q|options}",
			wantMsg: "expected '[' after 'options'",
		},
		{
			name:    "unterminated options list",
			input:   "{q|options[a,b",
			wantMsg: "unexpected end of input in options list",
		},
		{
			name:    "map without bracket",
			input:   "{q|map}",
			wantMsg: "expected '[' after 'map'",
		},
		{
			name:    "empty map",
			input:   "{var|map[]}",
			wantMsg: "requires at least one mapping",
		},
		{
			name:    "map pair missing colon",
			input:   "{var|map[nocolon]}",
			wantMsg: "invalid map syntax",
		},
		{
			name:    "duplicate map keys",
			input:   "{var|map[cal:calendar,cal:contacts]}",
			wantMsg: "duplicate key 'cal'",
		},
		{
			name:    "unterminated map list",
			input:   "{var|map[a:b",
			wantMsg: "unexpected end of input in map list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, tmpl)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.GreaterOrEqual(t, perr.Pos, 0)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	source := "/{page}/{author=me}/{repo?}?q={query|trim|encode}&k={v|options[a,b][strict]}"

	first, err := Parse(source)
	require.NoError(t, err)
	second, err := Parse(source)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_DuplicateMapKeyIsParseError(t *testing.T) {
	_, err := Parse("{a|map[x:y,x:z]}")
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
