package resolve

import (
	"context"
	"sort"
	"strings"

	"github.com/dkrebs/navilex/internal/model"
	"github.com/dkrebs/navilex/internal/textproc"
)

// LemmaSet is the set of normalized base forms associated with a word
// form. It always contains the normalized word itself, so it is never
// empty: a word with no dictionary match is its own lemma.
type LemmaSet map[string]struct{}

// Intersects reports whether the two sets share a lemma.
func (s LemmaSet) Intersects(other LemmaSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for lemma := range small {
		if _, ok := large[lemma]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the lemmas as a sorted slice for deterministic output.
func (s LemmaSet) Sorted() []string {
	lemmas := make([]string, 0, len(s))
	for lemma := range s {
		lemmas = append(lemmas, lemma)
	}
	sort.Strings(lemmas)
	return lemmas
}

// lemmaSetFrom derives the lemma set of word from its meanings: the first
// whitespace-delimited token of each lemma string (headwords look like
// "arma -ōrum"), macron-stripped and lowercased, plus the word itself.
func lemmaSetFrom(word string, meanings []model.LookupRecord) LemmaSet {
	set := make(LemmaSet, len(meanings)+1)
	for _, meaning := range meanings {
		fields := strings.Fields(meaning.Lemma)
		if len(fields) == 0 {
			continue
		}
		set[textproc.NormalizeLemma(fields[0])] = struct{}{}
	}
	set[textproc.NormalizeLemma(word)] = struct{}{}
	return set
}

// LemmaSet resolves the lemma set for a single word. When an existing
// analysis already contains the word, its meanings are reused and no
// provider round trip happens; otherwise a fresh all-meanings resolution
// is issued (and cached).
func (r *Resolver) LemmaSet(ctx context.Context, word string, analysis model.TextAnalysis) LemmaSet {
	word = strings.ToLower(word)
	if wa := analysis.Word(word); wa != nil {
		return lemmaSetFrom(word, wa.Meanings)
	}
	records, err := r.resolveAllMeanings(ctx, word)
	if err != nil {
		records = nil
	}
	return lemmaSetFrom(word, records)
}
