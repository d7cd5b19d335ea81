package rewrite

import "strings"

// NamingRules are the only per-language knobs of the rewriting step: how
// class, member (method/getter) and parameter identifiers are cased.
type NamingRules struct {
	Class  func(string) string
	Member func(string) string
	Param  func(string) string
}

// splitWords breaks an identifier on separators and lower/upper case
// boundaries: "user-profile", "user_profile" and "userProfile" all split
// into ["user", "Profile"]-shaped word lists (original casing kept).
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z':
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return words
}

// PascalCase renders "user_profile" as "UserProfile". Existing interior
// capitals survive, so "XSClient" stays "XSClient".
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// CamelCase renders "user_profile" as "userProfile".
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// SnakeCase renders "userProfile" as "user_profile".
func SnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}
