// Package redirect turns a raw search query into a redirect decision. It
// parses the alias token and its usage-mode suffix, binds query words or
// named variables onto the bookmark's template, and resolves the final URL.
package redirect

import "strings"

// UsageMode is the suffix-driven interpretation of how a query applies to
// an alias.
type UsageMode int

// UsageMode constants.
const (
	ModeDirect  UsageMode = iota // alias value
	ModeForm                     // alias?
	ModeNamed                    // alias$
	ModeChained                  // alias?$ or alias$?
)

func (m UsageMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeForm:
		return "form"
	case ModeNamed:
		return "named"
	case ModeChained:
		return "chained"
	default:
		return "unknown"
	}
}

// ParseAliasAndMode splits an alias token from its usage-mode suffix.
// A single-character token is always direct mode, so 1-letter aliases that
// happen to equal a suffix character keep working.
func ParseAliasAndMode(token string) (string, UsageMode) {
	if len(token) <= 1 {
		return token, ModeDirect
	}

	if strings.HasSuffix(token, "?$") || strings.HasSuffix(token, "$?") {
		return token[:len(token)-2], ModeChained
	}

	switch token[len(token)-1] {
	case '?':
		return token[:len(token)-1], ModeForm
	case '$':
		return token[:len(token)-1], ModeNamed
	default:
		return token, ModeDirect
	}
}

// ParseNestedPath splits a query into an alias path, the usage mode, and
// the remaining query. The first whitespace-separated token carrying a mode
// suffix ends the path; everything after it is the query.
//
//	"nested? sub1"          -> ["nested"], form, "sub1"
//	"nested sub1?"          -> ["nested", "sub1"], form, ""
//	"nested$ sub1 $var=val" -> ["nested"], named, "sub1 $var=val"
func ParseNestedPath(query string) ([]string, UsageMode, string) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, ModeDirect, ""
	}

	for i, token := range tokens {
		alias, mode := ParseAliasAndMode(token)
		if mode == ModeDirect {
			continue
		}
		path := make([]string, 0, i+1)
		path = append(path, tokens[:i]...)
		path = append(path, alias)
		return path, mode, strings.Join(tokens[i+1:], " ")
	}

	// No suffix anywhere: single alias in direct mode.
	return tokens[:1], ModeDirect, strings.Join(tokens[1:], " ")
}
