package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/pheddit/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "career advice",
		Total:     2,
		QueryTime: 7,
		Results: []models.PostView{
			{ID: "1", Title: "Switching careers", Selftext: "long body"},
			{ID: "2", Title: "Need advice"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "compact", "json"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q) = %v", valid, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) should fail")
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 2 || decoded.Results[0].ID != "1" {
		t.Errorf("decoded: %+v", decoded)
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Found 2 results") {
		t.Errorf("missing count line: %s", out)
	}
	if !strings.Contains(out, "Switching careers") {
		t.Errorf("missing title: %s", out)
	}
}

func TestWriteSearchResults_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "1\t") {
		t.Errorf("compact output: %q", buf.String())
	}
}

func TestWriteCandidates_Text(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.CandidatesResponse{
		Bucket: 1, Start: 3, End: 6, Total: 10,
		Results: []models.PostView{{ID: "c03", Title: "t"}},
	}
	if err := WriteCandidates(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Candidates 3-6 of 10 (bucket 1)") {
		t.Errorf("output: %s", buf.String())
	}
}

func TestWritePost_Text(t *testing.T) {
	var buf bytes.Buffer
	post := models.PostView{ID: "1", Title: "Hello", Selftext: "body text"}
	if err := WritePost(&buf, post, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"ID: 1", "Title: Hello", "body text"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in: %s", want, out)
		}
	}
}
