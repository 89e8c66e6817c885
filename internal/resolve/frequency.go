package resolve

import (
	"context"
	"log"
	"strings"

	"github.com/dkrebs/navilex/internal/cache"
	"github.com/dkrebs/navilex/internal/model"
	"github.com/dkrebs/navilex/internal/textproc"
)

// FrequencyReport is the result of a lemma-based frequency query.
type FrequencyReport struct {
	TotalWords int                     `json:"total_words"`
	WordData   []model.FrequencyResult `json:"word_data"`
}

// WordFrequency finds, for each search word, every text position whose
// token shares a base form with it. An existing analysis of the same text
// is reused; per-token lemma sets are memoized for the duration of this
// call, so a token occurring fifty times costs at most one resolution.
func (r *Resolver) WordFrequency(ctx context.Context, text string, searchWords []string) FrequencyReport {
	text = textproc.Preprocess(text)
	tokens := textproc.Tokenize(text)
	analysis, _ := r.sessions.Get(cache.Fingerprint(text))

	memo := make(map[string]LemmaSet)
	lemmasFor := func(word string) LemmaSet {
		if set, ok := memo[word]; ok {
			return set
		}
		set := r.LemmaSet(ctx, word, analysis)
		memo[word] = set
		return set
	}

	wordData := make([]model.FrequencyResult, 0, len(searchWords))
	for _, searchWord := range searchWords {
		searchLemmas := lemmasFor(strings.ToLower(searchWord))

		positions := []int{}
		for i, token := range tokens {
			if searchLemmas.Intersects(lemmasFor(token)) {
				positions = append(positions, i+1)
			}
		}

		wordData = append(wordData, model.FrequencyResult{
			SearchWord: searchWord,
			Lemmas:     searchLemmas.Sorted(),
			Positions:  positions,
			Count:      len(positions),
		})
	}

	// Frequency lookups may have populated the word cache.
	if err := r.words.Flush(); err != nil {
		log.Printf("word cache flush: %v", err)
	}

	return FrequencyReport{TotalWords: len(tokens), WordData: wordData}
}
