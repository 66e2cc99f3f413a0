// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/pkg/types"
)

func normalizeDoc() *types.ArticleDocument {
	return &types.ArticleDocument{
		Title: "Source title",
		Year:  "2023",
		Results: []types.ResultSection{
			{Title: "Alpha", Text: "a"},
			{Title: "Beta", Text: "b"},
			{Title: "Gamma", Text: "c"},
		},
		SourcePath: "papers/source.json",
	}
}

func TestNormalizeRebuildsResultsFromInputTitles(t *testing.T) {
	// Model output: list shape, reordered, one title missing, one invented.
	raw := map[string]any{
		"results": []any{
			map[string]any{"section_title": "Gamma", "mini_summary": "gamma summary"},
			map[string]any{"section_title": "Invented", "mini_summary": "should vanish"},
			map[string]any{"section_title": "Alpha", "mini_summary": "alpha summary"},
		},
	}

	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	require.Len(t, sum.Results, 3)
	assert.Equal(t, types.MiniSummary{SectionTitle: "Alpha", Text: "alpha summary"}, sum.Results[0])
	assert.Equal(t, types.MiniSummary{SectionTitle: "Beta", Text: Placeholder}, sum.Results[1])
	assert.Equal(t, types.MiniSummary{SectionTitle: "Gamma", Text: "gamma summary"}, sum.Results[2])
}

func TestNormalizeAcceptsMapShapedResults(t *testing.T) {
	raw := map[string]any{
		"results": map[string]any{
			"Alpha": "alpha text",
			"Beta":  map[string]any{"summary": "beta text"},
		},
	}

	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	assert.Equal(t, "alpha text", sum.Results[0].Text)
	assert.Equal(t, "beta text", sum.Results[1].Text)
	assert.Equal(t, Placeholder, sum.Results[2].Text)
}

func TestNormalizeAlternateResultKeys(t *testing.T) {
	raw := map[string]any{
		"results": []any{
			map[string]any{"title": "Alpha", "summary": "via alternate keys"},
		},
	}

	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	assert.Equal(t, "via alternate keys", sum.Results[0].Text)
}

func TestNormalizeHeaderFillPriority(t *testing.T) {
	doc := normalizeDoc()
	raw := map[string]any{
		"header": map[string]any{"title": "Model title", "year": 2024},
	}
	params := RunParams{
		Model:    "run-model",
		Language: "russian",
		Defaults: map[string]string{"year": "1999", "model": "default-model"},
	}

	sum, err := Normalize(raw, doc, params)
	require.NoError(t, err)
	// Model output beats defaults; defaults beat the source document;
	// the source document beats run parameters.
	assert.Equal(t, "Model title", sum.Header.Title)
	assert.Equal(t, "2024", sum.Header.Year)
	assert.Equal(t, "default-model", sum.Header.Model)
	assert.Equal(t, "papers/source.json", sum.Header.SourcePath)
	assert.Equal(t, "RU", sum.Header.Language)
}

func TestNormalizeHeaderFallsBackToDocument(t *testing.T) {
	sum, err := Normalize(map[string]any{}, normalizeDoc(), RunParams{Model: "m", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Source title", sum.Header.Title)
	assert.Equal(t, "2023", sum.Header.Year)
	assert.Equal(t, "m", sum.Header.Model)
	assert.Equal(t, "EN", sum.Header.Language)
}

func TestNormalizeFigures(t *testing.T) {
	raw := map[string]any{
		"figures": map[string]any{
			"narrative": "The figures trace the mechanism.",
			"items": []any{
				map[string]any{"figure": "Fig. 1", "summary": "Structure overview."},
				map[string]any{"figure": "Fig. 2"},
				map[string]any{"summary": "Orphan summary without a label."},
				"not an object",
			},
		},
	}

	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	assert.Equal(t, "The figures trace the mechanism.", sum.Figures.Narrative)
	require.Len(t, sum.Figures.Items, 1)
	assert.Equal(t, types.FigureItem{Figure: "Fig. 1", Summary: "Structure overview."}, sum.Figures.Items[0])
}

func TestNormalizeFiguresBareString(t *testing.T) {
	raw := map[string]any{"figures": "Just a narrative string."}

	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	assert.Equal(t, "Just a narrative string.", sum.Figures.Narrative)
	assert.Empty(t, sum.Figures.Items)
}

func TestNormalizeAbbreviations(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []types.Abbreviation
	}{
		{
			name: "map shape sorted",
			raw: map[string]any{
				"PCR": "polymerase chain reaction",
				"ATP": "adenosine triphosphate",
			},
			want: []types.Abbreviation{
				{Abbr: "ATP", Expanded: "adenosine triphosphate"},
				{Abbr: "PCR", Expanded: "polymerase chain reaction"},
			},
		},
		{
			name: "list shape with case-insensitive dedup",
			raw: []any{
				map[string]any{"abbr": "dna", "expanded": ""},
				map[string]any{"abbr": "DNA", "expanded": "deoxyribonucleic acid"},
				map[string]any{"abbr": "RNA", "expansion": "ribonucleic acid"},
			},
			want: []types.Abbreviation{
				{Abbr: "dna", Expanded: "deoxyribonucleic acid"},
				{Abbr: "RNA", Expanded: "ribonucleic acid"},
			},
		},
		{
			name: "garbage entries dropped",
			raw:  []any{"plain string", map[string]any{"expanded": "no abbr"}},
			want: []types.Abbreviation{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Normalize(map[string]any{"abbreviations": tt.raw}, normalizeDoc(), RunParams{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sum.Abbreviations)
		})
	}
}

func TestNormalizeKeyPointsCoercion(t *testing.T) {
	raw := map[string]any{
		"key_points": []any{"First point.", "", 42, "Second point."},
	}
	sum, err := Normalize(raw, normalizeDoc(), RunParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"First point.", "42", "Second point."}, sum.KeyPoints)
}

func TestNormalizeNilRaw(t *testing.T) {
	sum, err := Normalize(nil, normalizeDoc(), RunParams{Model: "m"})
	require.NoError(t, err)
	require.Len(t, sum.Results, 3)
	for _, r := range sum.Results {
		assert.Equal(t, Placeholder, r.Text)
	}
	assert.Empty(t, sum.KeyPoints)
}

func TestNormalizeNoResultsInDocument(t *testing.T) {
	_, err := Normalize(map[string]any{}, &types.ArticleDocument{Title: "x"}, RunParams{})
	assert.ErrorIs(t, err, ErrNoResults)
}
