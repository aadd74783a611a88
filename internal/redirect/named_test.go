package redirect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNamedVariables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		vars      map[string]string
		remainder string
	}{
		{
			name:      "quoted value with remainder",
			input:     `$a="x y"; rest`,
			vars:      map[string]string{"a": "x y"},
			remainder: "rest",
		},
		{
			name:      "multiple quoted pairs",
			input:     `$user="jrodal98"; $repo="my repo"; rest of query`,
			vars:      map[string]string{"user": "jrodal98", "repo": "my repo"},
			remainder: "rest of query",
		},
		{
			name:      "unquoted value",
			input:     "$lang=go; build tags",
			vars:      map[string]string{"lang": "go"},
			remainder: "build tags",
		},
		{
			name:      "unquoted value to end of input",
			input:     "$lang=go",
			vars:      map[string]string{"lang": "go"},
			remainder: "",
		},
		{
			name:      "escaped quote inside quoted value",
			input:     `$q="say \"hi\""`,
			vars:      map[string]string{"q": `say "hi"`},
			remainder: "",
		},
		{
			name:      "unterminated quote consumes the rest",
			input:     `$q="no closing quote here`,
			vars:      map[string]string{"q": "no closing quote here"},
			remainder: "",
		},
		{
			name:      "no variables at all",
			input:     "plain search terms",
			vars:      map[string]string{},
			remainder: "plain search terms",
		},
		{
			name:      "whitespace only",
			input:     "   ",
			vars:      map[string]string{},
			remainder: "",
		},
		{
			name:      "key without equals stops parsing",
			input:     "$broken rest",
			vars:      map[string]string{},
			remainder: "broken rest",
		},
		{
			name:      "unquoted values trimmed around semicolons",
			input:     "$a= one ; $b= two ",
			vars:      map[string]string{"a": "one", "b": "two"},
			remainder: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, remainder := ParseNamedVariables(tt.input)
			assert.Equal(t, tt.vars, vars)
			assert.Equal(t, tt.remainder, remainder)
		})
	}
}
