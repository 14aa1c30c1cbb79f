// Package matcher compiles query words into whole-word, case-insensitive
// text matchers and evaluates them against post fields.
package matcher

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

// cacheLimit caps the per-word matcher cache. The topic vocabulary and a
// site's hot query words are a small set; the cap keeps a stream of unique
// query words from growing the cache without bound. Words past the cap still
// compile, they just are not retained.
const cacheLimit = 4096

var (
	compiled     sync.Map // word -> *regexp.Regexp
	compiledSize atomic.Int64
)

// Word boundaries spelled out as "start of text or a non-word rune" so that
// they hold for non-ASCII words too (regexp's \b is ASCII-only).
const (
	boundaryLeft  = `(?:\A|[^\p{L}\p{N}_])`
	boundaryRight = `(?:[^\p{L}\p{N}_]|\z)`
)

// Compile turns one word into a whole-word, case-insensitive matcher. The
// word is escaped so regex metacharacters match literally, then anchored
// with word boundaries on both sides. Returns nil, err when the pattern
// fails to compile.
func Compile(word string) (*regexp.Regexp, error) {
	if re, ok := compiled.Load(word); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`(?i)` + boundaryLeft + regexp.QuoteMeta(word) + boundaryRight)
	if err != nil {
		return nil, err
	}
	if compiledSize.Load() < cacheLimit {
		if _, loaded := compiled.LoadOrStore(word, re); !loaded {
			compiledSize.Add(1)
		}
	}
	return re, nil
}

// CompileQuery splits query on whitespace and compiles each word. Words that
// fail to compile are silently dropped: a degraded matcher set loses
// precision but never fails the request. An empty result set is valid and
// means "match everything" to callers evaluating an AND over it.
func CompileQuery(query string) []*regexp.Regexp {
	var terms []*regexp.Regexp
	for _, word := range strings.Fields(query) {
		if re, err := Compile(word); err == nil {
			terms = append(terms, re)
		}
	}
	return terms
}

// CompileGroups compiles each phrase into its word-matcher group. A phrase's
// words must all match for the group to fire; callers OR across groups.
func CompileGroups(phrases []string) [][]*regexp.Regexp {
	groups := make([][]*regexp.Regexp, 0, len(phrases))
	for _, phrase := range phrases {
		groups = append(groups, CompileQuery(phrase))
	}
	return groups
}

// MatchAll reports whether every term matches title or body. OR between the
// two fields, AND across terms; an empty term set is vacuously true.
func MatchAll(terms []*regexp.Regexp, title, body string) bool {
	for _, re := range terms {
		if !re.MatchString(title) && !re.MatchString(body) {
			return false
		}
	}
	return true
}

// MatchAnyGroup reports whether at least one group has all of its terms
// matching title or body.
func MatchAnyGroup(groups [][]*regexp.Regexp, title, body string) bool {
	for _, terms := range groups {
		if MatchAll(terms, title, body) {
			return true
		}
	}
	return false
}
