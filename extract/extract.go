// Copyright 2026 Lattice Works
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package extract turns uploaded document bytes into per-page text.
//
// Extraction is format-aware by file extension. Unsupported or corrupt
// files yield no pages rather than an error, so one bad upload never
// fails a whole ingestion call.
package extract

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

// Page is one unit of extracted text with its page number.
// Plain-text formats produce a single page 0.
type Page struct {
	Number int
	Text   string
}

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".text": true,
	".csv":  true,
	".log":  true,
}

// Pages extracts text from an uploaded file. The returned slice is empty
// for unsupported or corrupt files.
func Pages(ctx context.Context, filename string, data []byte) []Page {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case ext == ".pdf":
		return pdfPages(ctx, filename, data)
	case textExtensions[ext]:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil
		}
		return []Page{{Number: 0, Text: text}}
	default:
		slog.Debug("unsupported document format", "file", filename, "ext", ext)
		return nil
	}
}

// Text extracts the whole document as one string, pages joined by blank
// lines. Used for the supplementary query document, which is a single
// context unit.
func Text(ctx context.Context, filename string, data []byte) string {
	pages := Pages(ctx, filename, data)
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func pdfPages(ctx context.Context, filename string, data []byte) []Page {
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))

	docs, err := loader.Load(ctx)
	if err != nil {
		// Corrupt input is a per-document condition, not a pipeline error.
		slog.Warn("pdf extraction failed", "file", filename, "err", err)
		return nil
	}

	pages := make([]Page, 0, len(docs))
	for i, doc := range docs {
		text := strings.TrimSpace(doc.PageContent)
		if text == "" {
			continue
		}

		number := i
		if raw, ok := doc.Metadata["page"]; ok {
			switch v := raw.(type) {
			case int:
				number = v
			case float64:
				number = int(v)
			}
		}
		pages = append(pages, Page{Number: number, Text: text})
	}
	return pages
}
