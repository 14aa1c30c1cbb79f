package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/hyperjump/pheddit/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// scanBufferSize bounds a single corpus line. Post bodies run long but stay
// well under this.
const scanBufferSize = 16 * 1024 * 1024

// Load reads every *.json file in dirs as newline-delimited JSON, one post
// object per line, and builds the store. Files are parsed in parallel; any
// unreadable directory, unopenable file, or unparsable line fails the whole
// load. Duplicate ids resolve last-writer-wins in sorted file order.
func Load(ctx context.Context, dirs []string, logger *zap.Logger) (*Store, error) {
	files, err := listJSONFiles(dirs)
	if err != nil {
		return nil, err
	}

	parsed := make([][]models.Post, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			posts, err := parseFile(path)
			if err != nil {
				return err
			}
			logger.Debug("corpus file parsed",
				zap.String("path", path),
				zap.Int("posts", len(posts)),
			)
			parsed[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Post)
	for _, posts := range parsed {
		for _, p := range posts {
			byID[p.ID()] = p
		}
	}
	return NewStore(byID), nil
}

// listJSONFiles collects *.json paths from each directory in sorted order.
func listJSONFiles(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				continue
			}
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// parseFile decodes one NDJSON corpus file.
func parseFile(path string) ([]models.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	var posts []models.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	line := 0
	for scanner.Scan() {
		line++
		var post models.Post
		if err := json.Unmarshal(scanner.Bytes(), &post); err != nil {
			return nil, fmt.Errorf("%s:%d: failed to parse post: %w", path, line, err)
		}
		posts = append(posts, post)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return posts, nil
}
