package main

import (
	"reflect"
	"testing"

	"github.com/hyperjump/pheddit/internal/config"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"career advice", "-output", "json"},
			expected: []string{"-output", "json", "career advice"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "career advice"},
			expected: []string{"-output", "json", "career advice"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"career advice"},
			expected: []string{"career advice"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-server", ""},
			expected: []string{"-server", "", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"programming"}, "programming"},
		{"multiple words", []string{"career", "advice"}, "career advice"},
		{"single quoted phrase", []string{"career advice"}, "career advice"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestCorpusDirs(t *testing.T) {
	cfg := &config.Config{}
	cfg.Corpus.Directories = []string{"/a"}
	got := corpusDirs(cfg, []string{"/b", "/c"})
	want := []string{"/a", "/b", "/c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("corpusDirs() = %v, want %v", got, want)
	}
	if got := corpusDirs(&config.Config{}, nil); len(got) != 0 {
		t.Errorf("corpusDirs(empty) = %v", got)
	}
}
