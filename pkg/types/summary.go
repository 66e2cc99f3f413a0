// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MiniSummary is the map-stage output for one Results subsection.
// SectionTitle must equal the originating ResultSection.Title exactly;
// the orchestrator verifies the full title sequence before reduction.
type MiniSummary struct {
	SectionTitle string `json:"section_title" yaml:"section_title"`
	Text         string `json:"mini_summary" yaml:"mini_summary"`
}

// FigureNarrativeChunk is the map-stage output for one batch of figure
// captions. Chunks are concatenated in batch order to form the final
// figure narrative.
type FigureNarrativeChunk struct {
	ChunkID   int    `json:"chunk_id" yaml:"chunk_id"`
	Narrative string `json:"narrative" yaml:"narrative"`
}

// SummaryHeader carries article metadata into the rendered summary.
// The normalizer guarantees every field is populated.
type SummaryHeader struct {
	Title      string `json:"title" yaml:"title"`
	Year       string `json:"year" yaml:"year"`
	SourcePath string `json:"source_path" yaml:"source_path"`
	Model      string `json:"model" yaml:"model"`
	Language   string `json:"language" yaml:"language"`
}

// FigureItem is one per-figure entry in the summary's figures block.
type FigureItem struct {
	Figure  string `json:"figure" yaml:"figure"`
	Summary string `json:"summary" yaml:"summary"`
}

// FigureBlock groups the connective narrative with per-figure summaries.
type FigureBlock struct {
	Narrative string       `json:"narrative" yaml:"narrative"`
	Items     []FigureItem `json:"items" yaml:"items"`
}

// Abbreviation is one abbreviation with its expansion.
type Abbreviation struct {
	Abbr     string `json:"abbr" yaml:"abbr"`
	Expanded string `json:"expanded" yaml:"expanded"`
}

// SummaryDocument is the final structured summary handed to rendering.
// After normalization, Results always has the same length and order as
// the input article's Results subsections, and every field exists.
type SummaryDocument struct {
	Header        SummaryHeader  `json:"header" yaml:"header"`
	KeyPoints     []string       `json:"key_points" yaml:"key_points"`
	Introduction  string         `json:"introduction" yaml:"introduction"`
	Results       []MiniSummary  `json:"results" yaml:"results"`
	Discussion    string         `json:"discussion" yaml:"discussion"`
	Figures       FigureBlock    `json:"figures" yaml:"figures"`
	Abbreviations []Abbreviation `json:"abbreviations" yaml:"abbreviations"`
}

// UsageRecord is the raw token usage reported for a single remote call.
type UsageRecord struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int `json:"total_tokens" yaml:"total_tokens"`
}

// UsageLedger accumulates token usage across one generation run. It is
// purely observational and never affects control flow. Each run owns its
// own ledger; ledgers are not shared across concurrent runs.
type UsageLedger struct {
	InputTokens  int           `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int           `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int           `json:"total_tokens" yaml:"total_tokens"`
	Calls        []UsageRecord `json:"calls" yaml:"calls"`
}

// Add merges one per-call usage record into the running totals and keeps
// the raw record for later inspection.
func (l *UsageLedger) Add(rec UsageRecord) {
	l.InputTokens += rec.InputTokens
	l.OutputTokens += rec.OutputTokens
	l.TotalTokens += rec.TotalTokens
	l.Calls = append(l.Calls, rec)
}
