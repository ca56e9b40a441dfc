// internal/recommend/tokenize.go
package recommend

import "strings"

func isTokenChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' || r == '.'
}

// Tokenize lowercases text and splits on runs of characters outside
// [a-z0-9+#.]. Keeping + # . intact preserves skill names like "c++",
// "c#", and "node.js" as single tokens. Tokens of length 1 are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isTokenChar(r)
	})

	var tokens []string
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
