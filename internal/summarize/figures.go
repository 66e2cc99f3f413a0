// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/summary-engine/internal/refs"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// defaultFigureBatchSize is the number of captions per narrative call.
const defaultFigureBatchSize = 10

// figuresPayload is the per-batch request body.
type figuresPayload struct {
	ChunkID             int                 `json:"chunk_id"`
	Captions            []string            `json:"captions"`
	RelevantResultsMini []types.MiniSummary `json:"relevant_results_mini"`
}

// figureNarrative runs the map stage over figure captions: fixed-size
// batches in input order, each paired with only the mini-summaries that
// share a figure reference with the batch. Chunk narratives are joined
// with blank lines in batch order. Zero figures yields an empty
// narrative without any remote call.
func (r *Run) figureNarrative(ctx context.Context, figures []types.Figure, minis []types.MiniSummary) (string, error) {
	if len(figures) == 0 {
		return "", nil
	}

	batchSize := r.cfg.FigureBatchSize
	if batchSize <= 0 {
		batchSize = defaultFigureBatchSize
	}

	// Reference sets per mini-summary, computed once.
	miniSets := make([]map[string]bool, len(minis))
	for i, m := range minis {
		miniSets[i] = refs.NormalizedSet(refs.Extract(m.Text))
	}

	var chunks []string
	for start := 0; start < len(figures); start += batchSize {
		end := start + batchSize
		if end > len(figures) {
			end = len(figures)
		}

		var captions []string
		batchRefs := make(map[string]bool)
		for _, f := range figures[start:end] {
			caption := strings.TrimSpace(f.Caption)
			if caption == "" {
				continue
			}
			captions = append(captions, caption)
			for _, ref := range refs.Extract(caption) {
				batchRefs[refs.Normalize(ref)] = true
			}
		}
		if len(captions) == 0 {
			continue
		}

		// Select mini-summaries whose references intersect the batch,
		// keeping results order. Topical relatedness without a shared
		// reference does not qualify.
		var relevant []types.MiniSummary
		if len(batchRefs) > 0 {
			for i, m := range minis {
				if intersects(miniSets[i], batchRefs) {
					relevant = append(relevant, m)
				}
			}
		}

		chunkID := start/batchSize + 1
		fmt.Fprintf(r.w, "figures batch %d: %d captions, %d related sections\n", chunkID, len(captions), len(relevant))

		prompt := renderTemplate(figuresPromptTmpl, struct{ Lang string }{Lang: langLabel(r.cfg.Language)})
		var chunk types.FigureNarrativeChunk
		err := r.inv.InvokeJSON(ctx, prompt, figuresPayload{
			ChunkID:             chunkID,
			Captions:            captions,
			RelevantResultsMini: relevant,
		}, &chunk)
		if err != nil {
			return "", fmt.Errorf("figures batch %d: %w", chunkID, err)
		}

		if n := strings.TrimSpace(chunk.Narrative); n != "" {
			chunks = append(chunks, n)
		}
	}

	return strings.Join(chunks, "\n\n"), nil
}

func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}
