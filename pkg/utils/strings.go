package utils

import "strings"

// ContainsAny checks if the text contains any of the given keywords
func ContainsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// MatchedKeywords returns the distinct keywords found in text, in keyword order
func MatchedKeywords(text string, keywords []string) []string {
	var matched []string
	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if _, dup := seen[keyword]; dup {
			continue
		}
		if strings.Contains(text, keyword) {
			seen[keyword] = struct{}{}
			matched = append(matched, keyword)
		}
	}
	return matched
}

// Normalize lower-cases and trims text
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
