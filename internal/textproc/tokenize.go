package textproc

import (
	"regexp"
	"strings"
)

// wordPattern matches a run of letters from the Latin alphabet plus the
// macron vowels and German umlauts that appear in dictionary headwords.
var wordPattern = regexp.MustCompile(`[a-zA-ZäöüÄÖÜāēīōūĀĒĪŌŪ]+`)

// Tokenize extracts the ordered sequence of lowercase word tokens from
// already-preprocessed text. Duplicates are kept; position-based frequency
// counting depends on the full sequence.
func Tokenize(text string) []string {
	matches := wordPattern.FindAllString(strings.ToLower(text), -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// UniqueWords deduplicates tokens, keeping the first occurrence of each and
// dropping single-letter tokens. The result is the unit of work for
// dictionary resolution.
func UniqueWords(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) < 2 || seen[tok] {
			continue
		}
		seen[tok] = true
		unique = append(unique, tok)
	}
	return unique
}
