package service

import "strings"

// tagRule maps title keywords to an advisory tag. Table order defines tag
// order in the result.
type tagRule struct {
	keywords []string
	tag      string
}

var tagRules = []tagRule{
	{keywords: []string{"water"}, tag: "plumbing"},
	{keywords: []string{"light", "fan"}, tag: "electrical"},
	{keywords: []string{"wifi", "internet"}, tag: "it-support"},
}

// AutoTags scans an issue title for known keywords and returns the matching
// tags. Matching is case-insensitive substring containment. The result is
// advisory metadata only and never blocks creation.
func AutoTags(title string) []string {
	lowered := strings.ToLower(title)
	tags := []string{}
	for _, rule := range tagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	return tags
}
