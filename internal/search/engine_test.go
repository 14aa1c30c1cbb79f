package search

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/hyperjump/pheddit/internal/config"
	"github.com/hyperjump/pheddit/internal/corpus"
	"github.com/hyperjump/pheddit/internal/models"
)

func newTestEngine(t *testing.T, posts ...models.Post) *Engine {
	t.Helper()
	byID := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID()] = p
	}
	cfg := &config.SearchConfig{Workers: 4}
	return NewEngine(corpus.NewStore(byID), cfg)
}

func ids(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID())
	}
	sort.Strings(out)
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "Switching careers into programming", "selftext": ""},
		models.Post{"id": "2", "title": "Feline photos", "selftext": "cute cats"},
		models.Post{"id": "3", "title": "Help", "selftext": "any advice on a programming career"},
		models.Post{"id": "4", "title": "Cat photos", "selftext": ""},
	)
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single term", "programming", []string{"1", "3"}},
		{"term across title and body", "careers switching", []string{"1"}},
		{"case insensitive", "PROGRAMMING", []string{"1", "3"}},
		{"whole word in title, not substring in body", "cat", []string{"4"}},
		{"plural is a different word", "cats", []string{"2"}},
		{"term in either field", "photos", []string{"2", "4"}},
		{"no match", "astronomy", nil},
		{"all terms must match", "programming astronomy", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(engine.Search(context.Background(), tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_emptyQueryMatchesAll(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "a"},
		models.Post{"id": "2", "title": "b"},
	)
	got := engine.Search(context.Background(), "")
	if len(got) != 2 {
		t.Errorf("empty query matched %d posts, want 2 (vacuous AND)", len(got))
	}
}

func TestSearch_unicodeWholeWord(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "learning 日本語 every day"},
		models.Post{"id": "2", "title": "日本語能力試験 prep"},
	)
	got := ids(engine.Search(context.Background(), "日本語"))
	if !equalIDs(got, []string{"1"}) {
		t.Errorf("Search(日本語) = %v, want [1]", got)
	}
}

func TestSearch_missingFieldsDegradeToNoMatch(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": 42.0},
		models.Post{"id": "2", "selftext": "a degree question"},
	)
	got := ids(engine.Search(context.Background(), "degree"))
	if !equalIDs(got, []string{"2"}) {
		t.Errorf("Search(degree) = %v, want [2]", got)
	}
}

func TestSearch_emptyStore(t *testing.T) {
	engine := newTestEngine(t)
	if got := engine.Search(context.Background(), "anything"); len(got) != 0 {
		t.Errorf("empty store matched %d posts", len(got))
	}
}

func TestCandidates_partition(t *testing.T) {
	// Ten candidate posts plus noise that must never qualify.
	posts := []models.Post{
		{"id": "zz", "title": "Cat photos", "selftext": "cute cats"},
	}
	for i := 0; i < 10; i++ {
		posts = append(posts, models.Post{
			"id":    fmt.Sprintf("c%02d", i),
			"title": fmt.Sprintf("career advice %d", i),
		})
	}
	engine := newTestEngine(t, posts...)

	var reassembled []string
	prevEnd := 0
	for bucket := 0; bucket < BucketCount; bucket++ {
		start, end, total, got, err := engine.Candidates(context.Background(), bucket)
		if err != nil {
			t.Fatal(err)
		}
		if total != 10 {
			t.Fatalf("total = %d, want 10", total)
		}
		if start != prevEnd {
			t.Errorf("bucket %d start = %d, want %d (contiguous)", bucket, start, prevEnd)
		}
		if len(got) != end-start {
			t.Errorf("bucket %d size = %d, want %d", bucket, len(got), end-start)
		}
		if size := end - start; size < 3 || size > 4 {
			t.Errorf("bucket %d size = %d, want balanced within 1", bucket, size)
		}
		for _, p := range got {
			reassembled = append(reassembled, p.ID())
		}
		prevEnd = end
	}
	if prevEnd != 10 {
		t.Errorf("final end = %d, want total", prevEnd)
	}
	if !sort.StringsAreSorted(reassembled) {
		t.Errorf("concatenated buckets not sorted by id: %v", reassembled)
	}
	if len(reassembled) != 10 {
		t.Errorf("buckets cover %d posts, want 10", len(reassembled))
	}
	for _, id := range reassembled {
		if id == "zz" {
			t.Error("non-candidate post leaked into a bucket")
		}
	}
}

func TestCandidates_deterministic(t *testing.T) {
	var posts []models.Post
	for i := 0; i < 50; i++ {
		posts = append(posts, models.Post{
			"id":    fmt.Sprintf("p%03d", i),
			"title": "thinking about a career change",
		})
	}
	engine := newTestEngine(t, posts...)

	_, _, _, first, err := engine.Candidates(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 5; run++ {
		_, _, _, again, err := engine.Candidates(context.Background(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: size %d, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i].ID() != first[i].ID() {
				t.Fatalf("run %d: order differs at %d: %s vs %s",
					run, i, again[i].ID(), first[i].ID())
			}
		}
	}
}

func TestCandidates_multiWordGroup(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "going self taught"},
		models.Post{"id": "2", "title": "self help books"},
	)
	_, _, total, _, err := engine.Candidates(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (both words of the phrase must match)", total)
	}
}

func TestCandidates_invalidBucket(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "career advice"},
	)
	for _, bucket := range []int{-1, 3, 7} {
		if _, _, _, _, err := engine.Candidates(context.Background(), bucket); err == nil {
			t.Errorf("Candidates(%d) should fail", bucket)
		}
	}
}

func TestCandidates_twoRecordExample(t *testing.T) {
	engine := newTestEngine(t,
		models.Post{"id": "1", "title": "Switching careers into programming", "selftext": ""},
		models.Post{"id": "2", "title": "Cat photos", "selftext": "cute cats"},
	)
	start, end, total, got, err := engine.Candidates(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || start != 0 || end != 0 {
		t.Errorf("bucket 0: start=%d end=%d total=%d", start, end, total)
	}
	if len(got) != 0 {
		t.Errorf("bucket 0 size = %d", len(got))
	}
	_, end2, _, _, err := engine.Candidates(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if end2 != 1 {
		t.Errorf("bucket 2 end = %d, want 1", end2)
	}
}

func TestLookup(t *testing.T) {
	post := models.Post{"id": "1", "title": "first", "selftext": "body"}
	engine := newTestEngine(t, post)
	got, ok := engine.Lookup("1")
	if !ok {
		t.Fatal("Lookup(1) not found")
	}
	if got.Title() != "first" || got.Selftext() != "body" {
		t.Errorf("Lookup(1) = %v", got)
	}
	if _, ok := engine.Lookup("missing"); ok {
		t.Error("Lookup(missing) should not be found")
	}
}
