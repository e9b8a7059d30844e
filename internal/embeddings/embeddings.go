// Package embeddings provides the text-embedding collaborator.
package embeddings

import "context"

// Embedder turns text into fixed-length vectors. Implementations must be
// deterministic for identical input so repeated queries land on the same
// neighborhood of the index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
