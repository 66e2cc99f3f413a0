// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// langLabel maps a language code to the label used in prompts. Unknown
// codes pass through unchanged.
func langLabel(language string) string {
	switch strings.ToUpper(strings.TrimSpace(language)) {
	case "RU", "RUS", "RUSSIAN":
		return "Russian"
	case "EN", "ENG", "ENGLISH":
		return "English"
	}
	return language
}

// sectionPromptTmpl asks for one mini-summary of one Results subsection.
// RefsClause is empty when the source text cites no main figures.
var sectionPromptTmpl = template.Must(template.New("section").Parse(`Write a concise scientific mini-summary in {{.Lang}} for ONE Results subsection.

INPUT:
- You will receive a JSON object with:
  - section_title (string)
  - section_text (string)

HARD RULES (non-negotiable):
- section_title in the output MUST exactly equal the input section_title.
- Do NOT invent any data not present in section_text.
- Preserve all NON-supplementary figure references that appear in the source text.
- Ignore any supplementary figure references (e.g., Fig. S1, Supplementary Fig. 2).
{{.RefsClause}}
CONTENT:
- State the main claim(s).
- Briefly mention the evidence/measurements/observations supporting the claim(s).
- Keep it compact and technical.

OUTPUT JSON SCHEMA:
{"section_title": "...", "mini_summary": "..."}
`))

// refsClauseTmpl lists the figure references the mini-summary must carry
// verbatim.
var refsClauseTmpl = template.Must(template.New("refsClause").Parse(`
FIGURE REFERENCES (MANDATORY):
- The source text contains these NON-supplementary figure references:
  {{.Refs}}
- You MUST include EVERY ONE of them in the mini-summary.
- Keep them in the SAME textual form (copy/paste); do not reformat, renumber, or paraphrase.
- Do NOT include Supplementary/Appendix/Extended Data figure references.
`))

// repairPromptTmpl fixes a mini-summary that dropped required references,
// changing nothing else.
var repairPromptTmpl = template.Must(template.New("repair").Parse(`You previously wrote a mini-summary but missed some REQUIRED non-supplementary figure references.

TASK:
- Keep section_title EXACTLY the same.
- Update mini_summary to include the missing figure references EXACTLY as provided.
- Do NOT add any supplementary figure references.
- Keep the length similar; do not add new claims.

MISSING REFS (must appear verbatim):
{{.Missing}}

OUTPUT JSON SCHEMA:
{"section_title": "...", "mini_summary": "..."}
`))

// figuresPromptTmpl asks for a connective narrative over one batch of
// figure captions plus the mini-summaries that cite the same figures.
var figuresPromptTmpl = template.Must(template.New("figures").Parse(`Write a coherent Figures narrative in {{.Lang}} for a scientific article.

The INPUT JSON contains:
- chunk_id: integer
- captions: list of figure captions (main figures only)
- relevant_results_mini: list of mini-summaries for Results subsections that mention the same figure references

RULES:
- Use ONLY the provided captions + relevant_results_mini as evidence.
- Keep figure references as they appear; do not invent new ones.
- Ignore supplementary figures (Fig. S..., Supplementary Fig...).
- Produce a narrative that links what each figure shows to the corresponding results claims.

OUTPUT JSON SCHEMA:
{"chunk_id": <int>, "narrative": "<text>"}
`))

// reducePromptTmpl merges all map outputs and article metadata into one
// structured summary.
var reducePromptTmpl = template.Must(template.New("reduce").Parse(`Generate a structured scientific summary in {{.Lang}}.

You are given:
- Trimmed article metadata (title, year, introduction and discussion excerpts).
- The ordered list of Results subsection titles produced by the parser.
- Pre-generated mini-summaries for EACH Results subsection (1:1).
- A figures narrative assembled from captions + relevant results mini-summaries.

IMPORTANT RULES:
- You MUST preserve Results subsection titles exactly as provided.
- You MUST output exactly one Results summary per input title, in the same order.
- Do NOT invent, merge, split, or rename any Results subsections.
- Populate every field of the output; no empty key fields.

FIGURE REFERENCES:
- Preserve NON-supplementary figure references present in mini-summaries/captions.
- Do NOT include supplementary figure references (Fig. S..., Supplementary Fig...).

OUTPUT JSON SCHEMA:
{"header": {"title": "...", "year": "..."}, "key_points": ["..."], "introduction": "...", "results": [{"section_title": "...", "mini_summary": "..."}], "discussion": "...", "figures": {"narrative": "...", "items": [{"figure": "...", "summary": "..."}]}, "abbreviations": [{"abbr": "...", "expanded": "..."}]}
`))

// singleShotPromptTmpl generates the whole summary in one request. Used
// only for small inputs on models declared JSON-reliable.
var singleShotPromptTmpl = template.Must(template.New("singleShot").Parse(`Generate a structured scientific summary in {{.Lang}}.

You are given a scientific article already parsed into a structured JSON object.

IMPORTANT:
- The article JSON already contains a list of Results subsections.
- Each Results subsection has an original title provided by the parser.
- You MUST preserve these titles exactly.
- You MUST generate exactly one mini-summary for EACH Results subsection.
- You MUST NOT invent, merge, split, rename, or omit any Results subsections.

STRICT PROCEDURE (mandatory):
1. Read the input JSON and extract the ordered list of Results subsection titles.
2. Use this list as the ONLY allowed Results sections.
3. Generate the Results summary strictly following this list, one-to-one and in the same order.

VALIDATION RULES:
- The number of Results summaries in the output MUST equal the number of Results subsections in the input.
- Every output section_title MUST exactly match one input Results title.

FIGURE REFERENCES:
- Preserve NON-supplementary figure references in Results/Figures narrative.
- Ignore supplementary references (Fig. S..., Supplementary Fig...).

OUTPUT JSON SCHEMA:
{"header": {"title": "...", "year": "..."}, "key_points": ["..."], "introduction": "...", "results": [{"section_title": "...", "mini_summary": "..."}], "discussion": "...", "figures": {"narrative": "...", "items": [{"figure": "...", "summary": "..."}]}, "abbreviations": [{"abbr": "...", "expanded": "..."}]}
`))

// chunkPromptTmpl condenses one chunk of source prose during post-fill of
// an empty introduction or discussion.
var chunkPromptTmpl = template.Must(template.New("chunk").Parse(`Condense the following chunk of a scientific article's {{.Field}} section into {{.Lang}}.

RULES:
- Target roughly one fifth of the input length.
- Keep claims, measurements, and figure references as they appear; invent nothing.
- Ignore supplementary figure references.

OUTPUT JSON SCHEMA:
{"text": "..."}
`))

// mergePromptTmpl merges per-chunk condensations into one passage.
var mergePromptTmpl = template.Must(template.New("merge").Parse(`Merge the following partial condensations of a scientific article's {{.Field}} section into one coherent passage in {{.Lang}}.

RULES:
- Keep the combined length close to the sum of the inputs.
- Remove duplication across chunk boundaries; invent nothing.

OUTPUT JSON SCHEMA:
{"text": "..."}
`))

// keyPointsPromptTmpl derives key points from the already-produced
// summary parts.
var keyPointsPromptTmpl = template.Must(template.New("keyPoints").Parse(`In {{.Lang}}, produce 5-8 key bullet points capturing the paper's main contributions and outcomes.

You are given the generated introduction, per-section results summaries, and discussion.
Base the points ONLY on that material.

OUTPUT JSON SCHEMA:
{"key_points": ["...", "..."]}
`))

// renderTemplate executes tmpl with data. Template execution over plain
// structs cannot fail at runtime here; a failure indicates a programming
// error.
func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("rendering %s template: %v", tmpl.Name(), err))
	}
	return buf.String()
}
