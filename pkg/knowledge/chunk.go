package knowledge

import "fmt"

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
)

// SplitChunks splits text into fixed-size chunks with the given overlap
// between consecutive chunks. Overlap must be smaller than size.
func SplitChunks(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap >= size {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, size)
	}

	var chunks []string
	for start := 0; start < len(text); start += size - overlap {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks, nil
}
