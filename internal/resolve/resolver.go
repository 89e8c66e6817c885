// Package resolve coordinates dictionary lookups for whole texts: it
// deduplicates words, resolves them on a bounded worker pool through the
// durable word cache, memoizes complete analyses per content fingerprint,
// and answers lemma-based frequency queries.
package resolve

import (
	"context"
	"log"
	"strings"

	"github.com/dkrebs/navilex/internal/cache"
	"github.com/dkrebs/navilex/internal/lexicon"
	"github.com/dkrebs/navilex/internal/model"
	"github.com/dkrebs/navilex/internal/textproc"
	"github.com/dkrebs/navilex/internal/worker"
)

// Resolver owns the resolution pipeline. Construct once at process start;
// the word cache is loaded by the caller and flushed here after each batch.
type Resolver struct {
	provider   lexicon.Provider
	words      *cache.WordCache
	sessions   *cache.SessionCache
	maxWorkers int
}

// NewResolver wires the resolver to its provider and caches.
func NewResolver(provider lexicon.Provider, words *cache.WordCache, sessions *cache.SessionCache, maxWorkers int) *Resolver {
	if maxWorkers <= 0 {
		maxWorkers = 50
	}
	return &Resolver{
		provider:   provider,
		words:      words,
		sessions:   sessions,
		maxWorkers: maxWorkers,
	}
}

// Lookup returns one result number for a word, consulting the durable
// cache first. Soft-failure records pass through uncached so a transient
// outage cannot poison the cache.
func (r *Resolver) Lookup(ctx context.Context, word string, nr int) model.LookupRecord {
	if nr < 1 {
		nr = 1
	}
	word = strings.ToLower(word)

	if record, ok := r.words.GetRecord(word, nr); ok {
		return record
	}
	record := r.provider.Lookup(ctx, word, nr)
	if record.Error == "" {
		r.words.PutRecord(word, nr, record)
	}
	return record
}

// AnalyzeText resolves every unique word of text and returns the cleaned
// text together with its analysis, in first-occurrence order. Identical
// text (same fingerprint) is answered from the session cache without any
// provider calls.
func (r *Resolver) AnalyzeText(ctx context.Context, text string, fetchAllMeanings bool) (string, model.TextAnalysis) {
	text = textproc.Preprocess(text)
	fingerprint := cache.Fingerprint(text)
	if analysis, ok := r.sessions.Get(fingerprint); ok {
		return text, analysis
	}

	unique := textproc.UniqueWords(textproc.Tokenize(text))
	resolved := r.resolveBatch(ctx, unique, fetchAllMeanings)

	// Reassemble in the tokenizer's order, not task-completion order.
	analysis := make(model.TextAnalysis, 0, len(resolved))
	for _, word := range unique {
		meanings, ok := resolved[word]
		if !ok {
			continue
		}
		analysis = append(analysis, model.WordAnalysis{
			Word:        word,
			Meanings:    meanings,
			HasMultiple: len(meanings) > 1,
		})
	}

	r.sessions.Set(fingerprint, analysis)
	return text, analysis
}

// resolveBatch resolves words concurrently, bounded by
// min(len(words), maxWorkers). Words whose resolution fails contribute
// nothing; one bad lookup must not fail the whole text.
func (r *Resolver) resolveBatch(ctx context.Context, words []string, fetchAllMeanings bool) map[string][]model.LookupRecord {
	resolved := make(map[string][]model.LookupRecord, len(words))
	if len(words) == 0 {
		return resolved
	}

	workers := len(words)
	if workers > r.maxWorkers {
		workers = r.maxWorkers
	}

	pool := worker.NewPool(workers)
	pool.Start(ctx)

	resolve := r.resolveSingle
	if fetchAllMeanings {
		resolve = r.resolveAllMeanings
	}
	for _, word := range words {
		pool.Submit(word, resolve)
	}

	for _, result := range pool.Wait() {
		if result.Err != nil {
			log.Printf("resolve %q: %v", result.Word, result.Err)
			continue
		}
		if len(result.Records) > 0 {
			resolved[result.Word] = result.Records
		}
	}

	// One flush per batch, not per word; durability is best effort.
	if err := r.words.Flush(); err != nil {
		log.Printf("word cache flush: %v", err)
	}

	return resolved
}

// resolveAllMeanings is the ResolveFunc for the all-meanings path. Empty
// results are cached ("no forms" is an answer); transport failures are not.
func (r *Resolver) resolveAllMeanings(ctx context.Context, word string) ([]model.LookupRecord, error) {
	if records, ok := r.words.GetAll(word); ok {
		return records, nil
	}
	records := r.provider.LookupAll(ctx, word)
	if isSoftFailure(records) {
		return nil, nil
	}
	r.words.PutAll(word, records)
	return records, nil
}

// resolveSingle is the ResolveFunc for the default single-lookup path.
func (r *Resolver) resolveSingle(ctx context.Context, word string) ([]model.LookupRecord, error) {
	record := r.Lookup(ctx, word, 1)
	if !record.Found {
		return nil, nil
	}
	return []model.LookupRecord{record}, nil
}

// isSoftFailure recognizes the provider's transport-failure marker.
func isSoftFailure(records []model.LookupRecord) bool {
	return len(records) == 1 && !records[0].Found && records[0].Error != ""
}
