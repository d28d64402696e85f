package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemStore implements Store on an embedded, disk-persistent chromem-go
// database under <dataDir>/memory/.
type ChromemStore struct {
	mu    sync.RWMutex
	db    *chromem.DB
	embed chromem.EmbeddingFunc
}

// NewChromemStore opens (or creates) the persistent store. embed computes
// document embeddings; pass OllamaEmbedding for a locally served model.
func NewChromemStore(dataDir string, embed chromem.EmbeddingFunc) (*ChromemStore, error) {
	dir := filepath.Join(dataDir, "memory")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	return &ChromemStore{db: db, embed: embed}, nil
}

// OllamaEmbedding returns an embedding function backed by the supervised
// server's embeddings endpoint.
func OllamaEmbedding(model string, port int) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOllama(model, fmt.Sprintf("http://127.0.0.1:%d/api", port))
}

func (s *ChromemStore) getOrCreate(name string) (*chromem.Collection, error) {
	col := s.db.GetCollection(name, s.embed)
	if col != nil {
		return col, nil
	}

	col, err := s.db.CreateCollection(name, nil, s.embed)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	return col, nil
}

func (s *ChromemStore) EnsureCollection(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.getOrCreate(collection)

	return err
}

func (s *ChromemStore) Upsert(ctx context.Context, collection, id, document string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.getOrCreate(collection)
	if err != nil {
		return err
	}

	return col.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  document,
		Metadata: metadata,
	})
}

func (s *ChromemStore) Query(ctx context.Context, collection, text string, topN int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topN <= 0 {
		topN = DefaultTopN
	}

	col := s.db.GetCollection(collection, s.embed)
	if col == nil {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	if topN > count {
		topN = count
	}

	var (
		results []chromem.Result
		err     error
	)

	// chromem-go sometimes rejects nResults despite the Count check.
	// Step down until a query succeeds.
	for k := topN; k > 0; k-- {
		results, err = col.Query(ctx, text, k, nil, nil)
		if err == nil {
			break
		}
	}

	if err != nil {
		slog.Warn("memory query failed", "collection", collection, "error", err)
		return nil, err
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		out = append(out, Result{ID: r.ID, Content: r.Content, Score: r.Similarity})
	}

	return out, nil
}
