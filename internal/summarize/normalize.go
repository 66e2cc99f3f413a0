// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Placeholder substitutes for a Results entry the model failed to return.
// The rendering side prints it verbatim.
const Placeholder = "—"

// RunParams carries run-level values the normalizer may fall back to
// when the model output and the header defaults leave a key empty.
type RunParams struct {
	Model    string
	Language string
	Defaults map[string]string
}

// Normalize post-processes raw model output into the canonical
// SummaryDocument shape. It is pure and deterministic: it never calls
// the model, and it never fails on malformed model output — missing or
// oddly-shaped fields degrade to defaults. The one fatal condition is an
// input document without Results titles, which the pipeline also rejects
// up front.
//
// The Results list is rebuilt strictly from the input title list; the
// model's own ordering, extra entries, and missing entries are
// irrelevant.
func Normalize(raw map[string]any, doc *types.ArticleDocument, p RunParams) (*types.SummaryDocument, error) {
	titles := doc.ResultTitles()
	if len(titles) == 0 {
		return nil, ErrNoResults
	}
	if raw == nil {
		raw = map[string]any{}
	}

	sum := &types.SummaryDocument{
		Header:        normalizeHeader(raw["header"], doc, p),
		KeyPoints:     asStringSlice(raw["key_points"]),
		Introduction:  asString(raw["introduction"]),
		Results:       normalizeResults(raw["results"], titles),
		Discussion:    asString(raw["discussion"]),
		Figures:       normalizeFigures(raw["figures"]),
		Abbreviations: normalizeAbbreviations(raw["abbreviations"]),
	}
	return sum, nil
}

// normalizeHeader fills every required header key: model output first,
// then supplied defaults, then the source document, then run parameters.
func normalizeHeader(v any, doc *types.ArticleDocument, p RunParams) types.SummaryHeader {
	m := asStringMap(v)
	pick := func(key string, fallbacks ...string) string {
		if s := strings.TrimSpace(m[key]); s != "" {
			return s
		}
		if s := strings.TrimSpace(p.Defaults[key]); s != "" {
			return s
		}
		for _, f := range fallbacks {
			if s := strings.TrimSpace(f); s != "" {
				return s
			}
		}
		return ""
	}
	return types.SummaryHeader{
		Title:      pick("title", doc.Title),
		Year:       pick("year", doc.Year.String()),
		SourcePath: pick("source_path", doc.SourcePath),
		Model:      pick("model", p.Model),
		Language:   pick("language", normalizeLang(p.Language)),
	}
}

// normalizeLang returns the canonical language code: known codes
// uppercased, everything else passed through.
func normalizeLang(language string) string {
	l := strings.ToUpper(strings.TrimSpace(language))
	switch l {
	case "EN", "ENG", "ENGLISH":
		return "EN"
	case "RU", "RUS", "RUSSIAN":
		return "RU"
	}
	return strings.TrimSpace(language)
}

// normalizeResults rebuilds the Results list from the input titles. The
// model's entries are indexed by exact title; an expected title with no
// entry gets the placeholder.
func normalizeResults(v any, titles []string) []types.MiniSummary {
	byTitle := indexResults(v)
	out := make([]types.MiniSummary, 0, len(titles))
	for _, title := range titles {
		text := strings.TrimSpace(byTitle[title])
		if text == "" {
			text = Placeholder
		}
		out = append(out, types.MiniSummary{SectionTitle: title, Text: text})
	}
	return out
}

// indexResults accepts the model's results in either accepted shape, in
// priority order: a list of objects with title and summary keys, or a
// map of title to summary text (or to an object holding the text).
func indexResults(v any) map[string]string {
	byTitle := make(map[string]string)
	switch rv := v.(type) {
	case []any:
		for _, item := range rv {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			title := firstString(m, "section_title", "title")
			if title == "" {
				continue
			}
			if _, exists := byTitle[title]; !exists {
				byTitle[title] = firstString(m, "mini_summary", "summary", "text")
			}
		}
	case map[string]any:
		for title, val := range rv {
			switch tv := val.(type) {
			case string:
				byTitle[title] = tv
			case map[string]any:
				byTitle[title] = firstString(tv, "mini_summary", "summary", "text")
			}
		}
	}
	return byTitle
}

// normalizeFigures coerces the figures block to {narrative, items},
// keeping only items with both a figure label and a summary.
func normalizeFigures(v any) types.FigureBlock {
	block := types.FigureBlock{Items: []types.FigureItem{}}

	m, ok := v.(map[string]any)
	if !ok {
		// A bare string is treated as the narrative alone.
		block.Narrative = asString(v)
		return block
	}
	block.Narrative = asString(m["narrative"])

	items, ok := m["items"].([]any)
	if !ok {
		return block
	}
	for _, item := range items {
		im, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fig := firstString(im, "figure", "number", "label")
		summary := firstString(im, "summary", "text", "caption")
		if fig == "" || summary == "" {
			continue
		}
		block.Items = append(block.Items, types.FigureItem{Figure: fig, Summary: summary})
	}
	return block
}

// normalizeAbbreviations accepts either a map of abbr to expansion or a
// list of objects, deduplicates case-insensitively (first non-empty
// expansion wins), and sorts by abbreviation.
func normalizeAbbreviations(v any) []types.Abbreviation {
	type entry struct {
		abbr     string
		expanded string
	}
	var entries []entry

	switch av := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(av))
		for k := range av {
			keys = append(keys, k)
		}
		// Deterministic first-wins order for the map shape.
		sort.Strings(keys)
		for _, k := range keys {
			entries = append(entries, entry{abbr: k, expanded: asString(av[k])})
		}
	case []any:
		for _, item := range av {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entries = append(entries, entry{
				abbr:     firstString(m, "abbr", "abbreviation", "short"),
				expanded: firstString(m, "expanded", "expansion", "meaning", "full"),
			})
		}
	}

	seen := make(map[string]int)
	out := []types.Abbreviation{}
	for _, e := range entries {
		abbr := strings.TrimSpace(e.abbr)
		if abbr == "" {
			continue
		}
		key := strings.ToLower(abbr)
		expanded := strings.TrimSpace(e.expanded)
		if idx, ok := seen[key]; ok {
			if out[idx].Expanded == "" && expanded != "" {
				out[idx].Expanded = expanded
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, types.Abbreviation{Abbr: abbr, Expanded: expanded})
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Abbr) < strings.ToLower(out[j].Abbr)
	})
	return out
}

// --- loose-shape helpers ---

func asString(v any) string {
	switch sv := v.(type) {
	case string:
		return strings.TrimSpace(sv)
	case float64:
		if sv == float64(int64(sv)) {
			return fmt.Sprintf("%d", int64(sv))
		}
		return fmt.Sprintf("%v", sv)
	case int:
		return fmt.Sprintf("%d", sv)
	}
	return ""
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asStringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = asString(val)
	}
	return out
}

// firstString returns the first non-empty string value among keys, in
// the given priority order.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}
