package keyword

import (
	"regexp"
	"strings"
)

// tokenPattern keeps dots and underscores so qualified API names such as
// "lancedb.connect" survive tokenization intact.
var tokenPattern = regexp.MustCompile(`[a-z0-9_.]+`)

// stopWords are dropped from both documents and queries.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// Tokenize splits text into lowercase word tokens, dropping single
// characters and stop words.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(matches))
	for _, tok := range matches {
		if len(tok) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
