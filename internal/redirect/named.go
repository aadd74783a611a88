package redirect

import "strings"

// ParseNamedVariables parses `$key="value"; $key2=value2; remainder` syntax
// into a variable map plus leftover free text. Quoted values support
// backslash-escaping of any character; unquoted values run to the next ';'
// or end of input. Parsing stops at the first token that does not start
// with '$'; whatever is left is the remainder ("" when only whitespace
// remains).
func ParseNamedVariables(input string) (map[string]string, string) {
	vars := make(map[string]string)
	remaining := input

	for {
		remaining = strings.TrimLeft(remaining, " \t\n\r")

		if !strings.HasPrefix(remaining, "$") {
			break
		}
		remaining = remaining[1:]

		eq := strings.IndexByte(remaining, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(remaining[:eq])
		remaining = remaining[eq+1:]

		var value string
		if strings.HasPrefix(remaining, `"`) {
			value, remaining = parseQuotedValue(remaining)
			// A ';' separator after the closing quote belongs to this
			// pair, not to the remainder.
			remaining = strings.TrimLeft(remaining, " \t\n\r")
			remaining = strings.TrimPrefix(remaining, ";")
		} else {
			value, remaining = parseUnquotedValue(remaining)
		}
		vars[key] = value
	}

	if strings.TrimSpace(remaining) == "" {
		return vars, ""
	}
	return vars, remaining
}

// parseQuotedValue reads a double-quoted value with backslash escapes,
// starting at the opening quote. A missing closing quote consumes the rest
// of the input.
func parseQuotedValue(input string) (string, string) {
	rest := input[1:]

	var value strings.Builder
	escaped := false

	for i, r := range rest {
		if escaped {
			value.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"':
			return value.String(), rest[i+1:]
		default:
			value.WriteRune(r)
		}
	}

	return value.String(), ""
}

// parseUnquotedValue reads up to the next ';' (consumed) or end of input,
// trimming surrounding whitespace.
func parseUnquotedValue(input string) (string, string) {
	if semi := strings.IndexByte(input, ';'); semi >= 0 {
		return strings.TrimSpace(input[:semi]), input[semi+1:]
	}
	return strings.TrimSpace(input), ""
}
