package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := types.CatalogConfig{
		CatalogDir: filepath.Join(tmpDir, "catalog"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, cfg.CatalogDir
}

func sampleSummary(title, year string) *types.SummaryDocument {
	return &types.SummaryDocument{
		Header: types.SummaryHeader{
			Title:      title,
			Year:       year,
			Model:      "test-model",
			Language:   "EN",
			SourcePath: "papers/" + year + ".json",
		},
		KeyPoints:    []string{"The main finding holds."},
		Introduction: "Background on the studied mechanism.",
		Results: []types.MiniSummary{
			{SectionTitle: "Primary outcome", Text: "The intervention improved the outcome twofold."},
		},
		Discussion: "The finding generalizes beyond the model system.",
	}
}

// --- tests ---

func TestSaveAndGet(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	sum := sampleSummary("Mitochondrial Dynamics in Hypoxia", "2024")
	id, err := store.Save(ctx, sum)
	if err != nil {
		t.Fatal(err)
	}
	if id != "2024-mitochondrial-dynamics-in-hypoxia" {
		t.Errorf("unexpected id %q", id)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Header.Title != sum.Header.Title {
		t.Errorf("title = %q, want %q", got.Header.Title, sum.Header.Title)
	}
	if len(got.Results) != 1 || got.Results[0].Text != sum.Results[0].Text {
		t.Errorf("results did not round-trip: %+v", got.Results)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	sum := sampleSummary("Repeated Article", "2023")
	if _, err := store.Save(ctx, sum); err != nil {
		t.Fatal(err)
	}

	sum.Discussion = "A revised discussion after regeneration."
	id, err := store.Save(ctx, sum)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after re-save, got %d", len(entries))
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Discussion != sum.Discussion {
		t.Errorf("discussion = %q, want replacement", got.Discussion)
	}
}

func TestGetMissing(t *testing.T) {
	store, _ := testStore(t)
	if _, err := store.Get(context.Background(), "absent"); err == nil {
		t.Fatal("expected error for missing summary")
	}
}

func TestSearchFullText(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	hypoxia := sampleSummary("Hypoxia Response", "2024")
	hypoxia.Results[0].Text = "Mitochondrial fission doubled under hypoxia."
	if _, err := store.Save(ctx, hypoxia); err != nil {
		t.Fatal(err)
	}
	other := sampleSummary("Plant Genomics Survey", "2022")
	other.Results[0].Text = "Chromosome assemblies improved across cultivars."
	if _, err := store.Save(ctx, other); err != nil {
		t.Fatal(err)
	}

	hits, err := store.Search(ctx, "fission", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Title != "Hypoxia Response" {
		t.Errorf("hit = %q", hits[0].Title)
	}

	if _, err := store.Search(ctx, "   ", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestList(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, title := range []string{"First Article", "Second Article"} {
		if _, err := store.Save(ctx, sampleSummary(title, "2024")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Model != "test-model" || e.CreatedAt == "" {
			t.Errorf("incomplete entry: %+v", e)
		}
	}
}

func TestExport(t *testing.T) {
	store, dir := testStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, sampleSummary("Exported Article", "2021")); err != nil {
		t.Fatal(err)
	}

	if err := store.ExportYAML(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.ExportJSON(ctx); err != nil {
		t.Fatal(err)
	}

	yamlData, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []ExportRecord
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 1 || fromYAML[0].Summary.Header.Title != "Exported Article" {
		t.Errorf("yaml export: %+v", fromYAML)
	}

	jsonData, err := os.ReadFile(filepath.Join(dir, "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []ExportRecord
	if err := json.Unmarshal(jsonData, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 1 || fromJSON[0].Entry.ID != "2021-exported-article" {
		t.Errorf("json export: %+v", fromJSON)
	}
}

func TestSummaryID(t *testing.T) {
	tests := []struct {
		title, year, want string
	}{
		{"Mitochondrial Dynamics in Hypoxia", "2024", "2024-mitochondrial-dynamics-in-hypoxia"},
		{"CRISPR/Cas9: edits & off-targets", "2020", "2020-crispr-cas9-edits-off-targets"},
		{"", "2019", "2019-untitled"},
		{"No Year Given", "", "no-year-given"},
	}
	for _, tt := range tests {
		if got := summaryID(tt.title, tt.year); got != tt.want {
			t.Errorf("summaryID(%q, %q) = %q, want %q", tt.title, tt.year, got, tt.want)
		}
	}
}
