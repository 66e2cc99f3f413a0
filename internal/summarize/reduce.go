// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// excerptLimit bounds how much introduction/discussion prose travels in
// the reduce payload. The mini-summaries carry the substance; the
// excerpts only give the model context for tone and framing.
const excerptLimit = 2000

// articleExcerpt is the trimmed metadata portion of the reduce payload.
type articleExcerpt struct {
	Title        string `json:"title"`
	Year         string `json:"year"`
	Introduction string `json:"introduction"`
	Discussion   string `json:"discussion"`
}

// reducePayload is the single reduce-call request body.
type reducePayload struct {
	Article          articleExcerpt      `json:"article"`
	ResultsTitles    []string            `json:"results_titles"`
	ResultsMini      []types.MiniSummary `json:"results_mini"`
	FiguresNarrative string              `json:"figures_narrative"`
}

// reduce issues the single call that merges article metadata, all
// mini-summaries (order-locked to titles), and the figure narrative into
// one structured summary. The raw output is never trusted as final; the
// caller always normalizes it.
func (r *Run) reduce(ctx context.Context, doc *types.ArticleDocument, titles []string, minis []types.MiniSummary, narrative string) (map[string]any, error) {
	fmt.Fprintf(r.w, "reducing %d mini-summaries\n", len(minis))

	prompt := renderTemplate(reducePromptTmpl, struct{ Lang string }{Lang: langLabel(r.cfg.Language)})
	payload := reducePayload{
		Article: articleExcerpt{
			Title:        doc.Title,
			Year:         doc.Year.String(),
			Introduction: excerpt(doc.Introduction, excerptLimit),
			Discussion:   excerpt(doc.Discussion, excerptLimit),
		},
		ResultsTitles:    titles,
		ResultsMini:      minis,
		FiguresNarrative: narrative,
	}

	var out map[string]any
	if err := r.inv.InvokeJSON(ctx, prompt, payload, &out); err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	return out, nil
}

// excerpt truncates text to at most limit runes at a word boundary.
func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
