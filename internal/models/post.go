// Package models defines core data structures for posts, queries, and search results.
package models

// Post is one discussion post as decoded from a corpus JSON line. Posts are
// semi-structured: beyond the recognized fields (id, title, selftext) they may
// carry arbitrary extra fields, which are preserved but ignored by matching.
type Post map[string]any

// Recognized field keys.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldSelftext = "selftext"
)

// Str returns the string value of key, or "" when the key is absent or not
// string-typed. Malformed or partial posts degrade to "no match" instead of
// failing the request.
func (p Post) Str(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ID returns the post's identity key.
func (p Post) ID() string { return p.Str(FieldID) }

// Title returns the post title, "" when absent.
func (p Post) Title() string { return p.Str(FieldTitle) }

// Selftext returns the markdown body, "" when absent.
func (p Post) Selftext() string { return p.Str(FieldSelftext) }
