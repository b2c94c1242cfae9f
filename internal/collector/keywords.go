package collector

import "strings"

// containsAny reports whether any text holds any keyword. Matching is a
// case-sensitive substring test.
func containsAny(keywords []string, texts ...string) bool {
	for _, text := range texts {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
