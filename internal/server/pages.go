package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/pheddit/internal/models"
	"github.com/hyperjump/pheddit/internal/search"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const styleCSS = `
html {
    height: 100%;
    background: lightgray;
    overflow-y: scroll;
}

body {
    display: flow-root;
    min-height: 100%;
    max-width: 800px;
    margin: 0 auto;
    padding: 0 1em;
    background: white;
    box-shadow: 5px 0 5px gray, -5px 0 5px gray;
}
`

const indexHTML = `<!DOCTYPE HTML>
<html>
<head>
    <title>Pheddit</title>
    <link rel="stylesheet" type="text/css" href="/style.css">
</head>
<body>
    <h1>Pheddit search engine</h1>
    <form action="/search" method="get">
        <label for="query">Query: </label>
        <input type="search" name="query" id="query" required>
        <input type="submit" value="Search">
    </form>
</body>
</html>
`

const searchHTML = `<!DOCTYPE HTML>
<html>
<head>
    <title>Pheddit Search | {{.Query}}</title>
    <link rel="stylesheet" type="text/css" href="/style.css">
</head>
<body>
    <h2>{{.Total}} results for <em>{{.Query}}</em></h2>
    <ul>
    {{range .Results}}<li><a href="/post/{{.ID}}">{{.Title}}</a>
    {{end}}</ul>
</body>
</html>
`

const postHTML = `<!DOCTYPE HTML>
<html>
<head>
    <title>Pheddit | {{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="/style.css">
</head>
<body>
    <h1>{{.Title}}</h1>
    {{.Body}}
</body>
</html>
`

const candidatesHTML = `<!DOCTYPE HTML>
<html>
<head>
    <title>Pheddit Candidates | {{.Bucket}}/3</title>
    <link rel="stylesheet" type="text/css" href="/style.css">
</head>
<body>
    <h2>Candidates {{.Start}}&ndash;{{.End}} of {{.Total}}</h2>
    <ul>
    {{range .Results}}<li><a href="/post/{{.ID}}">{{.Title}}</a>
    {{end}}</ul>
</body>
</html>
`

// pages holds the parsed HTML templates and the markdown renderer. Titles
// are escaped by html/template; post bodies come out of the markdown
// renderer already as HTML and are the only trusted fragment.
type pages struct {
	index      *template.Template
	search     *template.Template
	post       *template.Template
	candidates *template.Template
	markdown   goldmark.Markdown
}

func newPages() *pages {
	return &pages{
		index:      template.Must(template.New("index").Parse(indexHTML)),
		search:     template.Must(template.New("search").Parse(searchHTML)),
		post:       template.Must(template.New("post").Parse(postHTML)),
		candidates: template.Must(template.New("candidates").Parse(candidatesHTML)),
		markdown:   goldmark.New(),
	}
}

// renderMarkdown converts a post's markdown body to HTML. On render failure
// the body is shown as escaped plain text rather than failing the page.
func (p *pages) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		var esc bytes.Buffer
		template.HTMLEscape(&esc, []byte(text))
		return template.HTML("<pre>" + esc.String() + "</pre>")
	}
	return template.HTML(buf.String())
}

func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, s.pages.index, nil)
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(styleCSS))
}

func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	matched := s.engine.Search(r.Context(), query)
	s.renderPage(w, s.pages.search, models.SearchResponse{
		Query:   query,
		Total:   len(matched),
		Results: views(matched),
	})
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, ok := s.engine.Lookup(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, s.pages.post, struct {
		Title string
		Body  template.HTML
	}{
		Title: post.Title(),
		Body:  s.pages.renderMarkdown(post.Selftext()),
	})
}

func (s *Server) handleCandidatesPage(w http.ResponseWriter, r *http.Request) {
	bucket, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "bucket must be an integer", http.StatusBadRequest)
		return
	}
	start, end, total, matched, err := s.engine.Candidates(r.Context(), bucket)
	if err != nil {
		if errors.Is(err, search.ErrInvalidBucket) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("candidates page failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, s.pages.candidates, models.CandidatesResponse{
		Bucket:  bucket,
		Start:   start,
		End:     end,
		Total:   total,
		Results: views(matched),
	})
}
