package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeTag lowercases a tag and strips all whitespace so that
// "Hurt/Comfort", "hurt / comfort" and "HURT/COMFORT" compare equal.
func NormalizeTag(tag string) string {
	tag = strings.ToLower(tag)
	tag = strings.Trim(tag, " \n\t")
	return whitespaceRegex.ReplaceAllString(tag, "")
}

// MatchTag reports whether the normalized tag contains any of the given
// normalized substrings.
func MatchTag(tag string, matchers []string) bool {
	tag = NormalizeTag(tag)
	for _, m := range matchers {
		if strings.Contains(tag, m) {
			return true
		}
	}
	return false
}

// MatchAnyTag reports whether any tag in the list matches.
func MatchAnyTag(tags []string, matchers []string) bool {
	for _, tag := range tags {
		if MatchTag(tag, matchers) {
			return true
		}
	}
	return false
}
