// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// postFillChunkChars is the target chunk size when condensing long
// source prose to fill an empty introduction or discussion.
const postFillChunkChars = 8000

// textResponse is the model's answer for chunk and merge calls.
type textResponse struct {
	Text string `json:"text"`
}

// keyPointsResponse is the model's answer for the key-points call.
type keyPointsResponse struct {
	KeyPoints []string `json:"key_points"`
}

// postFill patches holes the reduce (or single-shot) call left behind:
// an empty introduction or discussion is rebuilt from the source
// article's prose by chunked condensation, and empty key points are
// derived from the already-produced summary parts. Post-fill calls count
// against the same budget as every other invocation, and their failures
// abort the run like any other stage's.
func (r *Run) postFill(ctx context.Context, sum *types.SummaryDocument, doc *types.ArticleDocument) error {
	if strings.TrimSpace(sum.Introduction) == "" && strings.TrimSpace(doc.Introduction) != "" {
		text, err := r.condense(ctx, "Introduction", doc.Introduction)
		if err != nil {
			return fmt.Errorf("post-fill introduction: %w", err)
		}
		sum.Introduction = text
	}

	if strings.TrimSpace(sum.Discussion) == "" && strings.TrimSpace(doc.Discussion) != "" {
		text, err := r.condense(ctx, "Discussion", doc.Discussion)
		if err != nil {
			return fmt.Errorf("post-fill discussion: %w", err)
		}
		sum.Discussion = text
	}

	if len(sum.KeyPoints) == 0 {
		points, err := r.deriveKeyPoints(ctx, sum)
		if err != nil {
			return fmt.Errorf("post-fill key points: %w", err)
		}
		sum.KeyPoints = points
	}

	return nil
}

// condense rebuilds a missing field from source prose: one call per
// chunk, plus a merge call when there is more than one chunk.
func (r *Run) condense(ctx context.Context, field, source string) (string, error) {
	chunks := splitChunks(source, postFillChunkChars)
	fmt.Fprintf(r.w, "post-filling %s from %d source chunks\n", strings.ToLower(field), len(chunks))

	data := struct{ Field, Lang string }{Field: field, Lang: langLabel(r.cfg.Language)}
	chunkPrompt := renderTemplate(chunkPromptTmpl, data)

	var parts []string
	for _, chunk := range chunks {
		var out textResponse
		if err := r.inv.InvokeJSON(ctx, chunkPrompt, map[string]string{"text": chunk}, &out); err != nil {
			return "", err
		}
		if t := strings.TrimSpace(out.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("condensing %s: no usable chunk output", strings.ToLower(field))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}

	mergePrompt := renderTemplate(mergePromptTmpl, data)
	var merged textResponse
	if err := r.inv.InvokeJSON(ctx, mergePrompt, map[string][]string{"parts": parts}, &merged); err != nil {
		return "", err
	}
	if t := strings.TrimSpace(merged.Text); t != "" {
		return t, nil
	}
	return strings.Join(parts, "\n\n"), nil
}

// deriveKeyPoints builds the key-points list from the summary produced
// so far.
func (r *Run) deriveKeyPoints(ctx context.Context, sum *types.SummaryDocument) ([]string, error) {
	fmt.Fprintf(r.w, "post-filling key points\n")

	prompt := renderTemplate(keyPointsPromptTmpl, struct{ Lang string }{Lang: langLabel(r.cfg.Language)})
	payload := struct {
		Introduction string              `json:"introduction"`
		Results      []types.MiniSummary `json:"results"`
		Discussion   string              `json:"discussion"`
	}{
		Introduction: sum.Introduction,
		Results:      sum.Results,
		Discussion:   sum.Discussion,
	}

	var out keyPointsResponse
	if err := r.inv.InvokeJSON(ctx, prompt, payload, &out); err != nil {
		return nil, err
	}
	var points []string
	for _, p := range out.KeyPoints {
		if t := strings.TrimSpace(p); t != "" {
			points = append(points, t)
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("deriving key points: empty answer")
	}
	return points, nil
}

// splitChunks packs paragraphs into chunks of at most limit runes,
// breaking mid-paragraph only when a single paragraph exceeds the limit
// on its own.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8Len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pl := utf8Len(para)
		if pl > limit {
			flush()
			runes := []rune(para)
			for start := 0; start < len(runes); start += limit {
				end := start + limit
				if end > len(runes) {
					end = len(runes)
				}
				chunks = append(chunks, string(runes[start:end]))
			}
			continue
		}
		if curLen > 0 && curLen+2+pl > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteString("\n\n")
			curLen += 2
		}
		cur.WriteString(para)
		curLen += pl
	}
	flush()
	return chunks
}

func utf8Len(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
