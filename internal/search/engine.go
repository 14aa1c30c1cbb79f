// Package search provides the corpus scan engine: ad-hoc boolean queries and
// the deterministic candidate partitioning used for manual review.
package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/hyperjump/pheddit/internal/config"
	"github.com/hyperjump/pheddit/internal/corpus"
	"github.com/hyperjump/pheddit/internal/matcher"
	"github.com/hyperjump/pheddit/internal/metrics"
	"github.com/hyperjump/pheddit/internal/models"
)

// BucketCount is the fixed number of candidate review buckets.
const BucketCount = 3

// ErrInvalidBucket is returned by Candidates for bucket indexes outside
// [0, BucketCount).
var ErrInvalidBucket = errors.New("bucket index out of range")

// Engine answers queries by scanning the whole corpus in parallel at request
// time. It holds no index; the store is immutable, so concurrent scans share
// it without locking.
type Engine struct {
	store   *corpus.Store
	workers int
	topics  [][]*regexp.Regexp
}

// NewEngine creates an engine over store. The topic vocabulary is compiled
// here, once, since it never changes.
func NewEngine(store *corpus.Store, cfg *config.SearchConfig) *Engine {
	return &Engine{
		store:   store,
		workers: cfg.Workers,
		topics:  matcher.CompileGroups(topicPhrases),
	}
}

// Search returns every post where each whitespace-separated query word
// occurs as a case-insensitive whole word in the title or the body. Result
// order is unspecified. An empty query (or one whose every word fails to
// compile) yields an empty matcher set, which vacuously matches every post;
// this mirrors the vacuous-AND behavior the service has always had.
func (e *Engine) Search(ctx context.Context, query string) []models.Post {
	terms := matcher.CompileQuery(query)
	return e.scan(ctx, "search", func(title, body string) bool {
		return matcher.MatchAll(terms, title, body)
	})
}

// Candidates selects every post matching at least one topic group, sorts the
// selection by id ascending, and returns the half-open slice covering
// bucket. The sort is what makes the three buckets reproducible across runs;
// the scan itself is unordered. Bucket indexes outside [0, BucketCount)
// return ErrInvalidBucket.
func (e *Engine) Candidates(ctx context.Context, bucket int) (start, end, total int, posts []models.Post, err error) {
	if bucket < 0 || bucket >= BucketCount {
		return 0, 0, 0, nil, fmt.Errorf("%w: %d", ErrInvalidBucket, bucket)
	}

	matched := e.scan(ctx, "candidates", func(title, body string) bool {
		return matcher.MatchAnyGroup(e.topics, title, body)
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID() < matched[j].ID()
	})

	total = len(matched)
	start = bucket * total / BucketCount
	end = (bucket + 1) * total / BucketCount
	return start, end, total, matched[start:end], nil
}

// Lookup returns the post stored under id.
func (e *Engine) Lookup(id string) (models.Post, bool) {
	return e.store.Get(id)
}

// PostCount returns the number of posts in the store.
func (e *Engine) PostCount() int {
	return e.store.Len()
}

// TopicGroupCount returns the number of compiled topic groups.
func (e *Engine) TopicGroupCount() int {
	return len(e.topics)
}

// Workers returns the scan worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// scan fans the match predicate out over contiguous chunks of the post slice
// and merges the per-worker selections. Each scan runs to completion; there
// is no cancellation or timeout at this layer.
func (e *Engine) scan(_ context.Context, op string, match func(title, body string) bool) []models.Post {
	started := time.Now()
	posts := e.store.Posts()
	n := len(posts)
	if n == 0 {
		return nil
	}

	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	selected := make([][]models.Post, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var local []models.Post
			for _, p := range posts[lo:hi] {
				if match(p.Title(), p.Selftext()) {
					local = append(local, p)
				}
			}
			selected[w] = local
		}(w, lo, hi)
	}
	wg.Wait()

	var merged []models.Post
	for _, local := range selected {
		merged = append(merged, local...)
	}
	metrics.ObserveScan(op, time.Since(started))
	return merged
}
