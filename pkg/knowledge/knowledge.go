// Package knowledge maintains the in-memory vector index of paper chunks
// that ask-paper answers are grounded on.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"

	"github.com/paperqa/paperqa/pkg/latex"
	"github.com/paperqa/paperqa/pkg/types"
)

const (
	collectionName   = "paper_chunks"
	embedConcurrency = 4
)

// Options configures a Base. Zero values fall back to defaults; a nil
// Embedding falls back to the local hash embedder.
type Options struct {
	DocsGlob     string
	ChunkSize    int
	ChunkOverlap int
	Embedding    chromem.EmbeddingFunc
	Logger       logr.Logger
}

// Base indexes cleaned paper chunks in chromem and serves top-k retrieval.
type Base struct {
	mu           sync.RWMutex
	db           *chromem.DB
	collection   *chromem.Collection
	embedding    chromem.EmbeddingFunc
	docsGlob     string
	chunkSize    int
	chunkOverlap int
	logger       logr.Logger
}

func NewBase(opts Options) (*Base, error) {
	if opts.DocsGlob == "" {
		opts.DocsGlob = "input/*.tex"
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkOverlap == 0 {
		opts.ChunkOverlap = DefaultChunkOverlap
	}
	if opts.Embedding == nil {
		opts.Embedding = NewLocalEmbeddingFunc()
	}
	if opts.ChunkOverlap >= opts.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", opts.ChunkOverlap, opts.ChunkSize)
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, opts.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &Base{
		db:           db,
		collection:   collection,
		embedding:    opts.Embedding,
		docsGlob:     opts.DocsGlob,
		chunkSize:    opts.ChunkSize,
		chunkOverlap: opts.ChunkOverlap,
		logger:       opts.Logger,
	}, nil
}

// Load reads every paper matching the docs glob, cleans and chunks it, and
// rebuilds the collection from scratch. Safe to call again to reindex.
func (b *Base) Load(ctx context.Context) error {
	files, err := filepath.Glob(b.docsGlob)
	if err != nil {
		return fmt.Errorf("bad docs glob %q: %w", b.docsGlob, err)
	}

	var docs []chromem.Document
	for _, fp := range files {
		content, err := os.ReadFile(fp)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fp, err)
		}
		title := strings.TrimSuffix(filepath.Base(fp), filepath.Ext(fp))
		chunks, err := SplitChunks(latex.Clean(string(content)), b.chunkSize, b.chunkOverlap)
		if err != nil {
			return err
		}
		for i, chunk := range chunks {
			reference := fmt.Sprintf("%s, chunk %d", title, i+1)
			docs = append(docs, chromem.Document{
				ID:      reference,
				Content: chunk,
				Metadata: map[string]string{
					"reference": reference,
					"title":     title,
				},
			})
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	collection, err := b.db.CreateCollection(collectionName, nil, b.embedding)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	b.collection = collection

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for _, doc := range docs {
		g.Go(func() error {
			return collection.AddDocument(gctx, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to index documents: %w", err)
	}

	b.logger.Info("Indexed papers", "files", len(files), "chunks", len(docs))
	return nil
}

// Count returns the number of indexed chunks.
func (b *Base) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.collection.Count()
}

// Retrieve returns up to topK chunks most relevant to the query, best first.
// topK is clamped to the collection size; an empty index yields no chunks.
func (b *Base) Retrieve(ctx context.Context, query string, topK int) ([]types.Chunk, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := b.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := b.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	chunks := make([]types.Chunk, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, types.Chunk{
			Text:      result.Content,
			Reference: result.Metadata["reference"],
		})
	}
	return chunks, nil
}
