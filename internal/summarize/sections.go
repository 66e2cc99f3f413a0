// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/summary-engine/internal/refs"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// miniSummaryMinRunes is the shortest mini-summary accepted without a
// regeneration attempt.
const miniSummaryMinRunes = 25

// sectionResponse is the model's answer for one Results subsection.
type sectionResponse struct {
	SectionTitle string `json:"section_title"`
	MiniSummary  string `json:"mini_summary"`
}

// summarizeSections runs the map stage over Results subsections in input
// order. Each subsection costs one call, plus at most one regeneration
// for a degenerate answer and one repair for dropped figure references.
// Persistent failure past those bounds is returned as-is, not retried.
func (r *Run) summarizeSections(ctx context.Context, doc *types.ArticleDocument) ([]types.MiniSummary, error) {
	var minis []types.MiniSummary
	for _, sec := range doc.Results {
		if strings.TrimSpace(sec.Title) == "" {
			continue
		}
		fmt.Fprintf(r.w, "summarizing %s\n", sec.Title)

		mini, err := r.summarizeSection(ctx, sec)
		if err != nil {
			return nil, fmt.Errorf("summarizing section %q: %w", sec.Title, err)
		}
		minis = append(minis, mini)
	}
	return minis, nil
}

func (r *Run) summarizeSection(ctx context.Context, sec types.ResultSection) (types.MiniSummary, error) {
	required := refs.Extract(sec.Text)

	refsClause := ""
	if len(required) > 0 {
		refsClause = renderTemplate(refsClauseTmpl, struct{ Refs string }{Refs: strings.Join(required, "; ")})
	}
	prompt := renderTemplate(sectionPromptTmpl, struct{ Lang, RefsClause string }{
		Lang:       langLabel(r.cfg.Language),
		RefsClause: refsClause,
	})
	payload := map[string]string{
		"section_title": strings.TrimSpace(sec.Title),
		"section_text":  sec.Text,
	}

	var out sectionResponse
	if err := r.inv.InvokeJSON(ctx, prompt, payload, &out); err != nil {
		return types.MiniSummary{}, err
	}

	// One regeneration for an empty, placeholder, or truncated answer.
	if isDegenerate(out.MiniSummary) {
		fmt.Fprintf(r.w, "regenerating %s: degenerate mini-summary\n", sec.Title)
		var regen sectionResponse
		if err := r.inv.InvokeJSON(ctx, prompt, payload, &regen); err != nil {
			return types.MiniSummary{}, err
		}
		out = regen
	}

	// One repair for missing mandatory references. The repaired text is
	// accepted as-is; there is no third attempt.
	if ok, missing := refs.ContainsAll(out.MiniSummary, required); !ok {
		fmt.Fprintf(r.w, "repairing %s: missing refs %s\n", sec.Title, strings.Join(missing, "; "))

		repairPrompt := renderTemplate(repairPromptTmpl, struct{ Missing string }{
			Missing: strings.Join(missing, "; "),
		})
		repairPayload := map[string]string{
			"section_title": sec.Title,
			"mini_summary":  out.MiniSummary,
		}

		var repaired sectionResponse
		if err := r.inv.InvokeJSON(ctx, repairPrompt, repairPayload, &repaired); err != nil {
			return types.MiniSummary{}, err
		}
		out = repaired
	}

	return types.MiniSummary{SectionTitle: out.SectionTitle, Text: out.MiniSummary}, nil
}

// isDegenerate reports whether a mini-summary is empty, a placeholder
// dash, or too short to be a real summary.
func isDegenerate(text string) bool {
	t := strings.TrimSpace(text)
	switch t {
	case "", "-", "–", "—":
		return true
	}
	return utf8.RuneCountInString(t) < miniSummaryMinRunes
}

// verifyTitleLock checks that produced mini-summary titles equal the
// input title sequence exactly: same values, same order, same length.
// A mismatch is an internal-consistency defect and is never reconciled.
func verifyTitleLock(expected []string, minis []types.MiniSummary) error {
	got := make([]string, len(minis))
	for i, m := range minis {
		got[i] = m.SectionTitle
	}
	if len(got) != len(expected) {
		return &TitleMismatchError{Expected: expected, Got: got}
	}
	for i := range expected {
		if got[i] != expected[i] {
			return &TitleMismatchError{Expected: expected, Got: got}
		}
	}
	return nil
}
