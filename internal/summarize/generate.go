// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns a parsed scientific article into a structured
// summary by orchestrating calls to a remote language model. See
// docs/ARCHITECTURE.md § Summarization pipeline.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/summary-engine/internal/llm"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// ErrNoResults is returned when the article has no Results subsections
// with non-empty titles. The pipeline refuses such input up front.
var ErrNoResults = errors.New("article has no titled Results subsections")

// TitleMismatchError reports a divergence between the input Results
// titles and the titles the map stage produced.
type TitleMismatchError struct {
	Expected []string
	Got      []string
}

func (e *TitleMismatchError) Error() string {
	return fmt.Sprintf("results title mismatch: expected %d titles %v, got %d titles %v",
		len(e.Expected), e.Expected, len(e.Got), e.Got)
}

// Run is one summary generation over one article. It owns the call
// budget and the usage ledger, so runs never bleed accounting into each
// other. A Run is not safe for concurrent use.
type Run struct {
	inv *llm.Invoker
	cfg types.SummaryConfig
	llm types.LLMConfig
	w   io.Writer
}

// NewRun builds a Run on top of transport. Progress lines go to w; pass
// nil to discard them.
func NewRun(transport llm.Transport, llmCfg types.LLMConfig, sumCfg types.SummaryConfig, w io.Writer) *Run {
	if w == nil {
		w = io.Discard
	}
	return &Run{
		inv: &llm.Invoker{
			Transport: transport,
			Budget:    llm.NewCallBudget(sumCfg.CallBudget),
			Ledger:    &types.UsageLedger{},
		},
		cfg: sumCfg,
		llm: llmCfg,
		w:   w,
	}
}

// Ledger returns the accumulated token usage for this run.
func (r *Run) Ledger() *types.UsageLedger {
	return r.inv.Ledger
}

// Generate produces the structured summary for doc. The returned
// document always has exactly one Results entry per titled input
// subsection, in input order.
func (r *Run) Generate(ctx context.Context, doc *types.ArticleDocument) (*types.SummaryDocument, error) {
	titles := doc.ResultTitles()
	if len(titles) == 0 {
		return nil, ErrNoResults
	}

	strategy, err := r.selectStrategy(doc)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.w, "strategy: %s, model: %s, budget: %d calls\n",
		strategy, r.llm.Model, r.inv.Budget.Ceiling())

	var raw map[string]any
	switch strategy {
	case types.StrategySingleShot:
		raw, err = r.singleShot(ctx, doc)
	case types.StrategyHierarchical:
		raw, err = r.hierarchical(ctx, doc, titles)
	default:
		err = fmt.Errorf("unknown strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}

	sum, err := Normalize(raw, doc, RunParams{
		Model:    r.llm.Model,
		Language: r.cfg.Language,
		Defaults: r.cfg.HeaderDefaults,
	})
	if err != nil {
		return nil, err
	}

	if err := r.postFill(ctx, sum, doc); err != nil {
		return nil, err
	}

	fmt.Fprintf(r.w, "done: %d calls, %d tokens in, %d tokens out\n",
		r.inv.Budget.Attempts(), r.inv.Ledger.InputTokens, r.inv.Ledger.OutputTokens)
	return sum, nil
}

// singleShot sends the whole article in one request.
func (r *Run) singleShot(ctx context.Context, doc *types.ArticleDocument) (map[string]any, error) {
	fmt.Fprintf(r.w, "single-shot over %d results sections\n", len(doc.ResultTitles()))

	prompt := renderTemplate(singleShotPromptTmpl, struct{ Lang string }{Lang: langLabel(r.cfg.Language)})
	var raw map[string]any
	if err := r.inv.InvokeJSON(ctx, prompt, doc, &raw); err != nil {
		return nil, fmt.Errorf("single-shot: %w", err)
	}
	return raw, nil
}

// hierarchical runs the map stages over sections and figures, then the
// reduce call.
func (r *Run) hierarchical(ctx context.Context, doc *types.ArticleDocument, titles []string) (map[string]any, error) {
	minis, err := r.summarizeSections(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := verifyTitleLock(titles, minis); err != nil {
		return nil, err
	}

	narrative, err := r.figureNarrative(ctx, doc.Figures, minis)
	if err != nil {
		return nil, err
	}

	return r.reduce(ctx, doc, titles, minis, narrative)
}
