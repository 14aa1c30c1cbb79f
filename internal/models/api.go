package models

// PostView is the wire representation of a post in API responses.
type PostView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Selftext string `json:"selftext"`
}

// View projects the recognized fields of a post for the API.
func (p Post) View() PostView {
	return PostView{ID: p.ID(), Title: p.Title(), Selftext: p.Selftext()}
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the response for a search request. Result order is
// unspecified and may differ between identical queries.
type SearchResponse struct {
	Query     string     `json:"query"`
	Total     int        `json:"total"`
	Results   []PostView `json:"results"`
	QueryTime int64      `json:"query_time_ms"`
}

// CandidatesResponse is the response for a candidates bucket request.
// Results are sorted by id ascending; [Start, End) indexes into the full
// sorted candidate sequence.
type CandidatesResponse struct {
	Bucket  int        `json:"bucket"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Total   int        `json:"total"`
	Results []PostView `json:"results"`
}

// StatusResponse is the response of GET /api/v1/status.
type StatusResponse struct {
	Posts       int `json:"posts"`
	TopicGroups int `json:"topic_groups"`
	Workers     int `json:"workers"`
}
