// Package main is the Pheddit CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/pheddit/internal/cli"
	"github.com/hyperjump/pheddit/internal/config"
	"github.com/hyperjump/pheddit/internal/corpus"
	"github.com/hyperjump/pheddit/internal/metrics"
	"github.com/hyperjump/pheddit/internal/models"
	"github.com/hyperjump/pheddit/internal/search"
	"github.com/hyperjump/pheddit/internal/server"
	"github.com/hyperjump/pheddit/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pheddit/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "candidates":
		runCandidates()
	case "lookup":
		runLookup()
	case "version", "--version", "-v":
		fmt.Printf("pheddit version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// corpusDirs merges config directories with positional CLI directories.
// CLI directories are appended, so duplicates in config win on id conflicts.
func corpusDirs(cfg *config.Config, args []string) []string {
	dirs := append([]string{}, cfg.Corpus.Directories...)
	dirs = append(dirs, args...)
	return dirs
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (corpus load, per-request detail)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	dirs := corpusDirs(cfg, fs.Args())
	if len(dirs) == 0 {
		logger.Fatal("no corpus directories configured; pass them as arguments or set corpus.directories")
	}

	engine, store, err := buildEngine(cfg, dirs, logger)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	logger.Info("corpus loaded",
		zap.Int("posts", store.Len()),
		zap.Strings("directories", dirs),
	)

	srv := server.NewServer(engine, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildEngine loads the corpus from dirs and constructs the scan engine.
func buildEngine(cfg *config.Config, dirs []string, logger *zap.Logger) (*search.Engine, *corpus.Store, error) {
	store, err := corpus.Load(context.Background(), dirs, logger)
	if err != nil {
		return nil, nil, err
	}
	metrics.SetCorpusSize(store.Len())
	return search.NewEngine(store, &cfg.Search), store, nil
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseFormat(s)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return format
}

func runSearch() {
	searchArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct corpus mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = load the corpus directly)`)
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: pheddit search [flags] <query>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())
	format := parseFormat(*outputFormat)

	var response *models.SearchResponse
	if *serverURL != "" {
		var err error
		response, err = searchViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		engine := directEngine(*configPath)
		started := time.Now()
		matched := engine.Search(context.Background(), query)
		response = &models.SearchResponse{
			Query:     query,
			Total:     len(matched),
			Results:   postViews(matched),
			QueryTime: time.Since(started).Milliseconds(),
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runCandidates() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("candidates", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct corpus mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = load the corpus directly)`)
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: pheddit candidates [flags] <bucket>")
		os.Exit(1)
	}
	bucket, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Printf("Bucket must be an integer, got %q\n", fs.Arg(0))
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	var response *models.CandidatesResponse
	if *serverURL != "" {
		response, err = candidatesViaHTTP(*serverURL, bucket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Candidates failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		engine := directEngine(*configPath)
		start, end, total, matched, err := engine.Candidates(context.Background(), bucket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Candidates failed: %v\n", err)
			os.Exit(1)
		}
		response = &models.CandidatesResponse{
			Bucket:  bucket,
			Start:   start,
			End:     end,
			Total:   total,
			Results: postViews(matched),
		}
	}
	if err := cli.WriteCandidates(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runLookup() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct corpus mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = load the corpus directly)`)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: pheddit lookup [flags] <post-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)
	format := parseFormat(*outputFormat)

	var post models.PostView
	if *serverURL != "" {
		p, err := lookupViaHTTP(*serverURL, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
			os.Exit(1)
		}
		post = *p
	} else {
		engine := directEngine(*configPath)
		p, ok := engine.Lookup(id)
		if !ok {
			fmt.Fprintf(os.Stderr, "Post not found: %s\n", id)
			os.Exit(1)
		}
		post = p.View()
	}
	if err := cli.WritePost(os.Stdout, post, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// directEngine loads config and the corpus in-process, for use when no
// server is running.
func directEngine(configPath string) *search.Engine {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(cfg.Corpus.Directories) == 0 {
		fmt.Fprintln(os.Stderr, "No corpus directories configured; set corpus.directories")
		os.Exit(1)
	}
	engine, _, err := buildEngine(cfg, cfg.Corpus.Directories, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load corpus: %v\n", err)
		os.Exit(1)
	}
	return engine
}

func postViews(posts []models.Post) []models.PostView {
	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.View())
	}
	return out
}

func searchViaHTTP(serverURL, query string) (*models.SearchResponse, error) {
	body, err := json.Marshal(models.SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func candidatesViaHTTP(serverURL string, bucket int) (*models.CandidatesResponse, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/candidates/%d", serverURL, bucket))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.CandidatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func lookupViaHTTP(serverURL, id string) (*models.PostView, error) {
	resp, err := http.Get(serverURL + "/api/v1/posts/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var post models.PostView
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &post, nil
}

func printUsage() {
	fmt.Println(`pheddit - in-memory full-text search over a discussion-post corpus

Usage:
  pheddit server [flags] [dir ...]      Load the corpus and start the HTTP server
  pheddit search [flags] <query>        Search posts (whole-word AND query)
  pheddit candidates [flags] <bucket>   Show one of the three review buckets (0-2)
  pheddit lookup [flags] <post-id>      Fetch one post
  pheddit version                       Show version
  pheddit help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/pheddit/config.yaml)
  --debug            Enable debug logging

Search/Candidates/Lookup Flags:
  --config string    Config file path (for direct corpus mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to
                     load the corpus in-process instead of querying a running server.
  --output string    Output format: text, compact, or json (default: text)

Examples:
  pheddit server ./dumps/2019 ./dumps/2020
  pheddit search switching careers
  pheddit search --output json "career advice"
  pheddit candidates 0
  pheddit lookup abc123`)
}
