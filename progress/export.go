package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coursa-cli/coursa/filesystem"
)

// Export writes a progress document to a user-chosen path.
func (g *Gateway) Export(data *Data, path string) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress export: %w", err)
	}
	if err := filesystem.API().WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write progress export: %w", err)
	}
	return nil
}

// Import reads a progress document from a user-chosen path, validates it as a
// whole, merges it on top of the currently persisted state, and saves the
// result. The merged document is returned so callers can swap it into their
// store.
func (g *Gateway) Import(path string) (*Data, error) {
	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read progress import: %w", err)
	}

	incoming, err := Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("rejected import: %w", err)
	}

	merged := Merge(g.Load(), incoming)
	merged.LastSync = time.Now()

	if err := g.Save(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
