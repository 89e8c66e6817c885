// Package textproc provides the text normalization and tokenization used
// before any dictionary lookup: punctuation cleanup, whitespace collapsing,
// Latin word extraction and macron stripping.
package textproc

import (
	"regexp"
	"strings"
)

// smartPunct replaces common "smart" punctuation variants with ASCII
// equivalents so pasted text behaves like typed text.
var smartPunct = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"—", "-", // em dash
	"–", "-", // en dash
	"\u00a0", " ", // non-breaking space
	"…", "...", // ellipsis
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Preprocess cleans raw input for analysis: smart punctuation becomes ASCII,
// non-printable control characters are removed, and runs of whitespace
// collapse to single spaces. Empty input yields empty output.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}
	text = smartPunct.Replace(text)
	text = controlChars.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// macronReplacer maps macron-marked vowels to their plain equivalents.
// This is the canonical normalization used everywhere lemmas are compared.
var macronReplacer = strings.NewReplacer(
	"ā", "a",
	"ē", "e",
	"ī", "i",
	"ō", "o",
	"ū", "u",
	"Ā", "A",
	"Ē", "E",
	"Ī", "I",
	"Ō", "O",
	"Ū", "U",
)

// StripMacrons removes vowel-length marks from s.
func StripMacrons(s string) string {
	return macronReplacer.Replace(s)
}

// NormalizeLemma is the canonical comparison form of a lemma or word:
// macrons stripped, then lowercased.
func NormalizeLemma(s string) string {
	return strings.ToLower(StripMacrons(s))
}
