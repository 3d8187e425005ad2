package ingestion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/latticeworks/ragd/core"
)

// manifestFile is the on-disk mirror of the registry record, written next
// to the documents it describes. It exists for operators poking around the
// data directory; the registry stays authoritative.
const manifestFile = "manifest.json"

type manifestMirror struct {
	CollectionID string    `json:"collection_id"`
	Owner        string    `json:"owner"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	Documents    []string  `json:"documents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Pipeline) writeManifestMirror(dir string, tenant core.TenantID, collection *core.Collection, documents []string) {
	mirror := manifestMirror{
		CollectionID: string(collection.Id),
		Owner:        string(tenant),
		Name:         collection.Name,
		Model:        collection.Model.String(),
		Documents:    documents,
		UpdatedAt:    time.Now().UTC(),
	}

	data, err := json.MarshalIndent(mirror, "", "  ")
	if err != nil {
		p.logger.Warn("manifest mirror marshal failed", "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0644); err != nil {
		p.logger.Warn("manifest mirror write failed", "error", err)
	}
}
