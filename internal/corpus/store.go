// Package corpus loads the post corpus from newline-delimited JSON files and
// holds it in an immutable in-memory store.
package corpus

import "github.com/hyperjump/pheddit/internal/models"

// Store is the read-only in-memory post collection, keyed by post id. It is
// built once by Load and never mutated afterwards, so any number of
// concurrent scans may share it without locking.
type Store struct {
	byID  map[string]models.Post
	posts []models.Post
}

// NewStore builds a store from an id-to-post map. The scan slice is derived
// here so every later scan iterates a stable snapshot. Callers must not
// modify byID afterwards.
func NewStore(byID map[string]models.Post) *Store {
	posts := make([]models.Post, 0, len(byID))
	for _, p := range byID {
		posts = append(posts, p)
	}
	return &Store{byID: byID, posts: posts}
}

// Get returns the post stored under id.
func (s *Store) Get(id string) (models.Post, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Len returns the number of posts in the store.
func (s *Store) Len() int {
	return len(s.posts)
}

// Posts returns the scan slice. Callers must treat it as read-only; it is
// shared across all concurrent scans.
func (s *Store) Posts() []models.Post {
	return s.posts
}
