package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

// Embedder is the narrow slice of the embedding provider the loader needs.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type corpusEntry struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Themes  []string `json:"themes"`
}

// Corpus titles carry the author after a dash: "Ion – Liviu Rebreanu".
var dashSplit = regexp.MustCompile(`\s*[–—-]\s*`)

// parseTitleAuthor splits "Ion – Liviu Rebreanu" into ("Ion", "Liviu
// Rebreanu"). Titles without a dash keep the raw string and an empty
// author.
func parseTitleAuthor(raw string) (title, author string) {
	parts := dashSplit.Split(strings.TrimSpace(raw), 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(raw), ""
}

// Load reads the corpus JSON at path, embeds every summary, and returns a
// freshly built Store. Summaries are embedded concurrently, bounded by
// concurrency; the first embedding failure cancels the rest. Reloading the
// corpus is just calling Load again and rewiring the returned handle.
func Load(ctx context.Context, path string, embedder Embedder, concurrency int) (*Store, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}

	var entries []corpusEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", path)
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	docs := make([]Document, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			title, author := parseTitleAuthor(entry.Title)
			vector, err := embedder.EmbedText(gctx, entry.Summary)
			if err != nil {
				return fmt.Errorf("failed to embed %q: %w", entry.Title, err)
			}
			docs[i] = Document{
				ID:   entry.Title,
				Text: entry.Summary,
				Metadata: models.DocumentMetadata{
					Title:  title,
					Author: author,
					Themes: strings.Join(entry.Themes, ", "),
				},
				Vector: vector,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store, err := New(docs)
	if err != nil {
		return nil, err
	}
	fiberlog.Infof("vectorstore: indexed %d documents from %s", store.Count(), path)
	return store, nil
}
