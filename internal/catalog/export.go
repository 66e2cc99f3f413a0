// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// ExportRecord pairs a catalog entry with its full summary document.
type ExportRecord struct {
	Entry   Entry                  `json:"entry" yaml:"entry"`
	Summary *types.SummaryDocument `json:"summary" yaml:"summary"`
}

// ExportYAML writes the whole catalog to catalogDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the whole catalog to catalogDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.catalogDir, "export.json"), data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context) ([]ExportRecord, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing for export: %w", err)
	}
	records := make([]ExportRecord, len(entries))
	for i, e := range entries {
		sum, err := s.Get(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		records[i] = ExportRecord{Entry: e, Summary: sum}
	}
	return records, nil
}
