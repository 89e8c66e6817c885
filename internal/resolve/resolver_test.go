package resolve

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dkrebs/navilex/internal/cache"
	"github.com/dkrebs/navilex/internal/model"
)

// stubProvider is a test double with per-word call counters.
type stubProvider struct {
	mu          sync.Mutex
	delay       map[string]time.Duration
	all         map[string][]model.LookupRecord
	singles     map[string]model.LookupRecord
	fail        map[string]bool
	allCalls    map[string]int
	singleCalls map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		delay:       make(map[string]time.Duration),
		all:         make(map[string][]model.LookupRecord),
		singles:     make(map[string]model.LookupRecord),
		fail:        make(map[string]bool),
		allCalls:    make(map[string]int),
		singleCalls: make(map[string]int),
	}
}

// meaning builds a found record for stub fixtures.
func meaning(word, lemma string) model.LookupRecord {
	return model.LookupRecord{
		WordForm:     word,
		Nr:           1,
		Lemma:        lemma,
		Found:        true,
		WordMatches:  true,
		Alternatives: []model.Alternative{},
	}
}

func (p *stubProvider) Lookup(ctx context.Context, word string, nr int) model.LookupRecord {
	p.mu.Lock()
	p.singleCalls[word]++
	record, ok := p.singles[word]
	fail := p.fail[word]
	p.mu.Unlock()

	if fail {
		return model.LookupRecord{WordForm: word, Nr: nr, Error: "connection refused", Alternatives: []model.Alternative{}}
	}
	if !ok {
		return model.LookupRecord{WordForm: word, Nr: nr, Alternatives: []model.Alternative{}}
	}
	return record
}

func (p *stubProvider) LookupAll(ctx context.Context, word string) []model.LookupRecord {
	p.mu.Lock()
	p.allCalls[word]++
	records, ok := p.all[word]
	fail := p.fail[word]
	delay := p.delay[word]
	p.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return []model.LookupRecord{{WordForm: word, Nr: 1, Error: "connection refused", Alternatives: []model.Alternative{}}}
	}
	if !ok {
		return []model.LookupRecord{}
	}
	return records
}

func (p *stubProvider) totalAllCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.allCalls {
		total += n
	}
	return total
}

func (p *stubProvider) allCallsFor(word string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allCalls[word]
}

func (p *stubProvider) singleCallsFor(word string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.singleCalls[word]
}

func newTestResolver(t *testing.T, provider *stubProvider) *Resolver {
	t.Helper()
	words := cache.NewWordCache(filepath.Join(t.TempDir(), "cache.json"))
	return NewResolver(provider, words, cache.NewSessionCache(), 50)
}

func analysisWords(analysis model.TextAnalysis) []string {
	words := make([]string, 0, len(analysis))
	for _, wa := range analysis {
		words = append(words, wa.Word)
	}
	return words
}

func TestAnalyzeText_OrderPreserved(t *testing.T) {
	provider := newStubProvider()
	provider.all["gallia"] = []model.LookupRecord{meaning("gallia", "Gallia -ae")}
	provider.all["est"] = []model.LookupRecord{meaning("est", "esse")}
	provider.all["omnis"] = []model.LookupRecord{meaning("omnis", "omnis -e")}
	provider.all["divisa"] = []model.LookupRecord{meaning("divisa", "dīvidere")}
	// Completion order is the reverse of text order.
	provider.delay["gallia"] = 40 * time.Millisecond
	provider.delay["est"] = 30 * time.Millisecond
	provider.delay["omnis"] = 20 * time.Millisecond
	provider.delay["divisa"] = 5 * time.Millisecond

	r := newTestResolver(t, provider)
	_, analysis := r.AnalyzeText(context.Background(), "Gallia est omnis divisa", true)

	want := []string{"gallia", "est", "omnis", "divisa"}
	if got := analysisWords(analysis); !reflect.DeepEqual(got, want) {
		t.Errorf("analysis order = %v, want %v", got, want)
	}
}

func TestAnalyzeText_SessionCacheIdempotent(t *testing.T) {
	provider := newStubProvider()
	provider.all["arma"] = []model.LookupRecord{meaning("arma", "arma -ōrum")}
	provider.all["virumque"] = []model.LookupRecord{meaning("virumque", "vir virī")}

	r := newTestResolver(t, provider)
	_, first := r.AnalyzeText(context.Background(), "Arma virumque", true)
	calls := provider.totalAllCalls()

	_, second := r.AnalyzeText(context.Background(), "Arma virumque", true)
	if provider.totalAllCalls() != calls {
		t.Errorf("second analysis issued provider calls: %d -> %d", calls, provider.totalAllCalls())
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("second analysis differs from first")
	}
}

func TestAnalyzeText_PartialFailure(t *testing.T) {
	provider := newStubProvider()
	provider.all["gallia"] = []model.LookupRecord{meaning("gallia", "Gallia -ae")}
	provider.all["omnis"] = []model.LookupRecord{meaning("omnis", "omnis -e")}
	provider.fail["est"] = true

	r := newTestResolver(t, provider)
	_, analysis := r.AnalyzeText(context.Background(), "gallia est omnis", true)

	want := []string{"gallia", "omnis"}
	if got := analysisWords(analysis); !reflect.DeepEqual(got, want) {
		t.Errorf("analysis = %v, want %v (failed word dropped)", got, want)
	}
}

func TestAnalyzeText_TransportFailureNotCached(t *testing.T) {
	provider := newStubProvider()
	provider.fail["est"] = true

	r := newTestResolver(t, provider)
	r.AnalyzeText(context.Background(), "est", true)
	// A different text avoids the session cache; the word cache must not
	// have retained the failed lookup.
	r.AnalyzeText(context.Background(), "est quoque", true)

	if got := provider.allCallsFor("est"); got != 2 {
		t.Errorf("expected 2 provider calls for failing word, got %d", got)
	}
}

func TestAnalyzeText_EmptyResultCached(t *testing.T) {
	provider := newStubProvider()

	r := newTestResolver(t, provider)
	r.AnalyzeText(context.Background(), "xyzzy", true)
	r.AnalyzeText(context.Background(), "xyzzy iterum", true)

	if got := provider.allCallsFor("xyzzy"); got != 1 {
		t.Errorf(`"no forms" result not cached: %d provider calls`, got)
	}
}

func TestAnalyzeText_SingleLookupPath(t *testing.T) {
	provider := newStubProvider()
	provider.singles["amavit"] = meaning("amavit", "amāre")

	r := newTestResolver(t, provider)
	_, analysis := r.AnalyzeText(context.Background(), "amavit nullus", false)

	if got := analysisWords(analysis); !reflect.DeepEqual(got, []string{"amavit"}) {
		t.Fatalf("analysis = %v, want [amavit]", got)
	}
	if analysis[0].HasMultiple {
		t.Error("single lookup must not report multiple meanings")
	}
	if provider.singleCallsFor("nullus") != 1 {
		t.Error("expected a single-lookup attempt for the unknown word")
	}
}

func TestAnalyzeText_HasMultiple(t *testing.T) {
	provider := newStubProvider()
	provider.all["est"] = []model.LookupRecord{meaning("est", "esse"), meaning("est", "ēsse")}

	r := newTestResolver(t, provider)
	_, analysis := r.AnalyzeText(context.Background(), "est", true)

	if len(analysis) != 1 || !analysis[0].HasMultiple {
		t.Errorf("expected HasMultiple for ambiguous word, got %+v", analysis)
	}
}

func TestLookup_CaseInsensitiveCaching(t *testing.T) {
	provider := newStubProvider()
	provider.singles["amavit"] = meaning("amavit", "amāre")

	r := newTestResolver(t, provider)
	first := r.Lookup(context.Background(), "Amavit", 1)
	second := r.Lookup(context.Background(), "amavit", 1)

	if !reflect.DeepEqual(first, second) {
		t.Error("differently cased lookups returned different records")
	}
	if got := provider.singleCallsFor("amavit"); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
}

func TestLookup_SoftFailureNotCached(t *testing.T) {
	provider := newStubProvider()
	provider.fail["est"] = true

	r := newTestResolver(t, provider)
	record := r.Lookup(context.Background(), "est", 1)
	if record.Found || record.Error == "" {
		t.Fatalf("expected soft failure, got %+v", record)
	}

	// Provider recovers; the cache must not have pinned the failure.
	provider.mu.Lock()
	provider.fail["est"] = false
	provider.singles["est"] = meaning("est", "esse")
	provider.mu.Unlock()

	record = r.Lookup(context.Background(), "est", 1)
	if !record.Found {
		t.Error("recovered lookup still failing; soft failure was cached")
	}
}

func TestLookup_DefaultsNr(t *testing.T) {
	provider := newStubProvider()
	provider.singles["est"] = meaning("est", "esse")

	r := newTestResolver(t, provider)
	record := r.Lookup(context.Background(), "est", 0)
	if record.Nr != 1 {
		t.Errorf("Nr = %d, want 1", record.Nr)
	}
}
