package model

// LookupRecord is a single dictionary result for a word form.
// Immutable once constructed; a failed lookup is represented by
// Found=false with Error set, never by an error value crossing
// the provider boundary.
type LookupRecord struct {
	WordForm    string `json:"word_form"`           // Surface form that was looked up
	Nr          int    `json:"nr"`                  // 1-based result number for ambiguous forms
	Lemma       string `json:"lemma,omitempty"`     // Dictionary base form, possibly with part of speech
	Grammar     string `json:"grammar,omitempty"`   // Morphological description of this form
	Translation string `json:"translation,omitempty"`
	Found       bool   `json:"found"`               // Whether the dictionary had an entry
	WordMatches bool   `json:"word_matches"`        // Whether the looked-up form is a real form of the lemma

	Alternatives []Alternative `json:"alternatives"` // Other candidate lemmas for the same form
	URL          string        `json:"url"`          // Source URL the record came from
	Error        string        `json:"error,omitempty"`
}

// Alternative points at another result number for the same word form.
type Alternative struct {
	Nr    int    `json:"nr"`
	Lemma string `json:"lemma"`
}

// WordAnalysis collects all candidate meanings for one unique word of a text.
type WordAnalysis struct {
	Word        string         `json:"word"`
	Meanings    []LookupRecord `json:"meanings"`
	HasMultiple bool           `json:"has_multiple"`
}

// TextAnalysis is the full per-word analysis of a text, in first-occurrence
// order of the source. It never contains two entries for the same word.
type TextAnalysis []WordAnalysis

// Word returns the analysis for word, or nil if the text did not contain it
// (or its resolution failed).
func (t TextAnalysis) Word(word string) *WordAnalysis {
	for i := range t {
		if t[i].Word == word {
			return &t[i]
		}
	}
	return nil
}

// FrequencyResult reports where a search word's lemma set matches the text.
type FrequencyResult struct {
	SearchWord string   `json:"search_word"`
	Lemmas     []string `json:"lemmas"`    // Normalized lemma set, never empty
	Positions  []int    `json:"positions"` // 1-based token positions, ascending
	Count      int      `json:"count"`
}
