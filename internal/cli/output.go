// Package cli provides CLI output formatting for Pheddit.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/pheddit/internal/models"
	"github.com/hyperjump/pheddit/pkg/utils"
)

// OutputFormat is the format for CLI result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Title)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nFound %d results for %q in %dms\n\n",
			response.Total, response.Query, response.QueryTime)
		for _, r := range response.Results {
			writeOneResult(w, r)
		}
		return nil
	}
}

// WriteCandidates writes a candidates bucket to w in the given format.
func WriteCandidates(w io.Writer, response *models.CandidatesResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Title)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nCandidates %d-%d of %d (bucket %d)\n\n",
			response.Start, response.End, response.Total, response.Bucket)
		for _, r := range response.Results {
			writeOneResult(w, r)
		}
		return nil
	}
}

// WritePost writes a single post to w in the given format.
func WritePost(w io.Writer, post models.PostView, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, post)
	default:
		fmt.Fprintf(w, "ID: %s\n", post.ID)
		if post.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", post.Title)
		}
		if post.Selftext != "" {
			fmt.Fprintf(w, "\n%s\n", post.Selftext)
		}
		return nil
	}
}

func writeOneResult(w io.Writer, r models.PostView) {
	fmt.Fprintf(w, "ID: %s\n", r.ID)
	if r.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", r.Title)
	}
	if r.Selftext != "" {
		fmt.Fprintf(w, "%s\n", utils.Truncate(r.Selftext, 200))
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
