package resolve

import (
	"context"
	"reflect"
	"testing"

	"github.com/dkrebs/navilex/internal/model"
)

func TestLemmaSet_Intersects(t *testing.T) {
	a := LemmaSet{"puella": {}, "rosa": {}}
	b := LemmaSet{"rosa": {}, "bellum": {}}
	c := LemmaSet{"arma": {}}

	if !a.Intersects(b) {
		t.Error("sets sharing a lemma must intersect")
	}
	if !b.Intersects(a) {
		t.Error("Intersects must be symmetric")
	}
	if a.Intersects(c) {
		t.Error("disjoint sets must not intersect")
	}
	if a.Intersects(LemmaSet{}) {
		t.Error("empty set intersects nothing")
	}
}

func TestLemmaSet_Sorted(t *testing.T) {
	set := LemmaSet{"rosa": {}, "arma": {}, "puella": {}}
	want := []string{"arma", "puella", "rosa"}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestLemmaSetFrom_FirstTokenNormalized(t *testing.T) {
	meanings := []model.LookupRecord{
		{Lemma: "arma -ōrum", Found: true},
		{Lemma: "armāre", Found: true},
		{Lemma: ""},
		{Lemma: "   "}, // whitespace-only, e.g. from a hand-edited cache file
	}
	set := lemmaSetFrom("armis", meanings)

	for _, lemma := range []string{"arma", "armare", "armis"} {
		if _, ok := set[lemma]; !ok {
			t.Errorf("lemma set missing %q: %v", lemma, set.Sorted())
		}
	}
	if _, ok := set["-ōrum"]; ok {
		t.Error("lemma set must only keep the headword, not its genitive tail")
	}
	if len(set) != 3 {
		t.Errorf("blank lemmas must contribute nothing, got %v", set.Sorted())
	}
}

func TestLemmaSet_NeverEmpty(t *testing.T) {
	provider := newStubProvider()
	r := newTestResolver(t, provider)

	set := r.LemmaSet(context.Background(), "Xyzzy", nil)
	if _, ok := set["xyzzy"]; !ok || len(set) != 1 {
		t.Errorf("unknown word must be its own lemma, got %v", set.Sorted())
	}
}

func TestLemmaSet_ReusesAnalysis(t *testing.T) {
	provider := newStubProvider()
	r := newTestResolver(t, provider)

	analysis := model.TextAnalysis{
		{Word: "puellam", Meanings: []model.LookupRecord{{Lemma: "puella -ae", Found: true}}},
	}
	set := r.LemmaSet(context.Background(), "Puellam", analysis)

	if _, ok := set["puella"]; !ok {
		t.Errorf("expected lemma from analysis, got %v", set.Sorted())
	}
	if provider.totalAllCalls() != 0 {
		t.Errorf("analysis hit must not reach the provider, got %d calls", provider.totalAllCalls())
	}
}

func TestLemmaSet_ResolvesAndCaches(t *testing.T) {
	provider := newStubProvider()
	provider.all["puellam"] = []model.LookupRecord{meaning("puellam", "puella -ae")}
	r := newTestResolver(t, provider)

	set := r.LemmaSet(context.Background(), "puellam", nil)
	if _, ok := set["puella"]; !ok {
		t.Fatalf("expected resolved lemma, got %v", set.Sorted())
	}

	r.LemmaSet(context.Background(), "puellam", nil)
	if got := provider.allCallsFor("puellam"); got != 1 {
		t.Errorf("second derivation bypassed the word cache: %d calls", got)
	}
}
