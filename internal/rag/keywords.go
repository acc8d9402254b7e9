package rag

import (
	"regexp"
	"strings"
)

var punctuation = regexp.MustCompile(`[^\w\s]`)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {},
	"why": {}, "how": {}, "when": {}, "where": {},
	"that": {}, "this": {}, "these": {}, "those": {},
	"to": {}, "for": {}, "with": {}, "about": {}, "against": {},
	"between": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {},
	"from": {}, "up": {}, "down": {}, "in": {}, "out": {},
	"on": {}, "off": {}, "over": {}, "under": {},
	"does": {}, "do": {}, "did": {}, "can": {}, "could": {},
	"would": {}, "should": {}, "will": {}, "shall": {},
	"may": {}, "might": {}, "have": {}, "has": {}, "had": {},
	"having": {}, "be": {}, "been": {}, "being": {},
	"as": {}, "if": {}, "then": {}, "else": {},
	"of": {}, "at": {}, "by": {},
}

// ExtractKeywords reduces a query to its salient terms: lowercased, stripped
// of punctuation, stop words and tokens of two characters or fewer dropped.
func ExtractKeywords(query string) []string {
	clean := punctuation.ReplaceAllString(strings.ToLower(query), "")
	var keywords []string
	for _, word := range strings.Fields(clean) {
		if len(word) <= 2 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
