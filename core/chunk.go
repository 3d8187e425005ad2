package core

import "fmt"

// Chunk is a bounded text span derived from a source document. Chunks are
// not persisted as registry rows; they live only in the vector index.
type Chunk struct {
	Id     string
	Text   string
	Source string // basename of the source document
	Page   int
	Seq    int // sequence index within the document
}

// ChunkID derives the deterministic identifier for a chunk. Re-running
// chunking on the same file must produce the same identifier set, which is
// what makes re-ingestion an idempotent upsert.
func ChunkID(source string, page, seq int) string {
	return fmt.Sprintf("%s_page%d_chunk%d", source, page, seq)
}
