// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/pkg/types"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "empty",
			text:  "   ",
			limit: 10,
			want:  nil,
		},
		{
			name:  "fits in one chunk",
			text:  "short text",
			limit: 100,
			want:  []string{"short text"},
		},
		{
			name:  "packs paragraphs",
			text:  "aaaa\n\nbbbb\n\ncccc",
			limit: 10,
			want:  []string{"aaaa\n\nbbbb", "cccc"},
		},
		{
			name:  "oversized paragraph split mid-text",
			text:  strings.Repeat("x", 25),
			limit: 10,
			want:  []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.text, tt.limit))
		})
	}
}

func TestCondenseSingleChunkSkipsMerge(t *testing.T) {
	tr := &scriptTransport{replies: []string{
		`{"text": "Condensed passage."}`,
	}}
	run := newTestRun(tr, types.SummaryConfig{})

	text, err := run.condense(context.Background(), "Introduction", "Short source prose.")
	require.NoError(t, err)
	assert.Equal(t, "Condensed passage.", text)
	assert.Len(t, tr.calls, 1)
}

func TestCondenseMergesMultipleChunks(t *testing.T) {
	// Two paragraphs that cannot share a chunk force two chunk calls
	// followed by one merge call.
	source := strings.Repeat("alpha ", 1200) + "\n\n" + strings.Repeat("beta ", 1200)

	tr := &scriptTransport{replies: []string{
		`{"text": "First part condensed."}`,
		`{"text": "Second part condensed."}`,
		`{"text": "Merged passage."}`,
	}}
	run := newTestRun(tr, types.SummaryConfig{})

	text, err := run.condense(context.Background(), "Discussion", source)
	require.NoError(t, err)
	assert.Equal(t, "Merged passage.", text)
	require.Len(t, tr.calls, 3)
	assert.Contains(t, tr.calls[2].Payload, "First part condensed.")
	assert.Contains(t, tr.calls[2].Payload, "Second part condensed.")
}

func TestDeriveKeyPointsUsesProducedSummary(t *testing.T) {
	tr := &scriptTransport{replies: []string{
		`{"key_points": ["Point one.", "  ", "Point two."]}`,
	}}
	run := newTestRun(tr, types.SummaryConfig{})

	points, err := run.deriveKeyPoints(context.Background(), &types.SummaryDocument{
		Introduction: "Intro text.",
		Results:      []types.MiniSummary{{SectionTitle: "A", Text: "a summary"}},
		Discussion:   "Discussion text.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Point one.", "Point two."}, points)
	assert.Contains(t, tr.calls[0].Payload, "a summary")
}
