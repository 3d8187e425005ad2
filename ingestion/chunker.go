package ingestion

import (
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/extract"
)

// Chunking constants are deployment configuration, not per-document
// decisions. They match the splitter the collections were built with;
// changing them changes chunk ids on re-ingestion.
const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 300
	// DefaultChunkOverlap is the overlap between adjacent chunks.
	DefaultChunkOverlap = 30
)

// chunkPages splits extracted pages into bounded overlapping chunks with
// deterministic ids. The sequence index runs across the whole document,
// so the id set is stable for identical input.
func chunkPages(source string, pages []extract.Page, chunkSize, chunkOverlap int) ([]core.Chunk, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	var chunks []core.Chunk
	seq := 0
	for _, page := range pages {
		parts, err := splitter.SplitText(page.Text)
		if err != nil {
			return nil, err
		}
		for _, part := range parts {
			chunks = append(chunks, core.Chunk{
				Id:     core.ChunkID(source, page.Number, seq),
				Text:   part,
				Source: source,
				Page:   page.Number,
				Seq:    seq,
			})
			seq++
		}
	}
	return chunks, nil
}
