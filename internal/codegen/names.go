package codegen

import "strings"

// goKeywords is the reserved word set of the emitted language.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
	// Not keywords, but colliding with the generated parameter names
	// would shadow them inside every function body.
	"rdram": true, "ctx": true, "rt": true, "ps2rt": true,
}

// SanitizeName rewrites a guest symbol name into a legal exported-safe
// identifier: every byte outside [A-Za-z0-9_] becomes '_', a leading
// non-letter gains a '_' prefix, "main" becomes ps2_main, and reserved
// words gain a ps2_ prefix. Idempotent.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return s
	}
	if c := s[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
		s = "_" + s
	}
	if s == "main" {
		return "ps2_main"
	}
	if goKeywords[s] {
		return "ps2_" + s
	}
	return s
}
