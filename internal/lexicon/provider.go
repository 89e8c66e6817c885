// Package lexicon talks to the external Latin dictionary. The provider
// contract fails soft: transport problems come back as records with
// Found=false and Error set, never as Go errors, so one bad lookup can
// never abort a whole text analysis.
package lexicon

import (
	"context"

	"github.com/dkrebs/navilex/internal/model"
)

// Provider supplies lookup data for a word form.
type Provider interface {
	// Lookup fetches the result with the given 1-based number.
	Lookup(ctx context.Context, word string, nr int) model.LookupRecord

	// LookupAll fetches every candidate meaning of word. An empty slice
	// means the dictionary has no forms for it; that is not an error.
	LookupAll(ctx context.Context, word string) []model.LookupRecord
}

// errorRecord builds the soft-failure record for a transport problem.
func errorRecord(word string, nr int, url string, err error) model.LookupRecord {
	return model.LookupRecord{
		WordForm:     word,
		Nr:           nr,
		Found:        false,
		Alternatives: []model.Alternative{},
		URL:          url,
		Error:        err.Error(),
	}
}
