package knowledge

import (
	"context"
	"math"
	"strings"

	"github.com/philippgille/chromem-go"
)

// NewOllamaEmbeddingFunc embeds documents through an Ollama server's
// embedding API.
func NewOllamaEmbeddingFunc(server, model string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOllama(model, server)
}

// NewLocalEmbeddingFunc returns a deterministic hash-based embedding
// function. It needs no external service, which makes it the offline
// fallback and the embedder used in tests. Texts sharing words land close
// together, which is enough for coarse retrieval.
func NewLocalEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		embedding := make([]float32, 384)
		text = strings.ToLower(text)
		words := strings.Fields(text)

		for _, word := range words {
			hash := 0
			for _, char := range word {
				hash = (hash*31 + int(char)) % 384
			}
			embedding[hash] += 1.0
			if hash > 0 {
				embedding[hash-1] += 0.5
			}
			if hash < 383 {
				embedding[hash+1] += 0.5
			}
		}

		// Normalize
		var sum float32
		for _, v := range embedding {
			sum += v * v
		}
		if sum > 0 {
			norm := 1.0 / float32(math.Sqrt(float64(sum)))
			for i := range embedding {
				embedding[i] *= norm
			}
		}

		return embedding, nil
	}
}
