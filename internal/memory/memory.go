// Package memory provides the long-term retrieval store consulted during
// prompt assembly and fed after every recorded turn.
package memory

import (
	"context"
	"strings"
)

// DefaultTopN bounds retrieval results folded into a prompt.
const DefaultTopN = 5

// Result is a single similarity-search hit.
type Result struct {
	ID      string
	Content string
	Score   float32
}

// Store is the narrow contract to the vector store. Collections are created
// on first use.
type Store interface {
	// Query returns up to topN documents of the collection ranked by
	// similarity to text.
	Query(ctx context.Context, collection, text string, topN int) ([]Result, error)
	// Upsert stores one document under the given id.
	Upsert(ctx context.Context, collection, id, document string, metadata map[string]string) error
	// EnsureCollection creates the collection if it does not exist yet.
	EnsureCollection(collection string) error
}

// CollectionName keys a collection by the agent and its counterpart so each
// agent's memory of a given interlocutor stays separate.
func CollectionName(agent, counterpart string) string {
	return strings.ToLower(agent) + "-" + strings.ToLower(counterpart)
}
