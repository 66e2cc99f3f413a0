// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by transports that make
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "summary-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMProvider identifies the remote text-generation transport.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// LLMConfig holds settings for the remote text-generation service.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the transport: openai or anthropic.
	Provider LLMProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier sent to the provider.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// JSONReliable declares whether the configured model is known to
	// honor strict JSON-only output. Models not declared reliable are
	// always routed through the hierarchical strategy. This is an
	// explicit configuration input; the engine embeds no per-provider
	// model-name heuristics.
	JSONReliable bool `json:"json_reliable" yaml:"json_reliable"`

	// MaxRetries bounds transport-level retries on rate limiting.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Strategy selects how a summary is generated.
type Strategy string

const (
	// StrategyAuto picks single-shot for small inputs and hierarchical
	// for large ones.
	StrategyAuto Strategy = "auto"

	// StrategySingleShot issues one request for the whole document.
	StrategySingleShot Strategy = "single_shot"

	// StrategyHierarchical runs the map-reduce pipeline: one call per
	// Results subsection, one per figure batch, then a reduce call.
	StrategyHierarchical Strategy = "hierarchical"
)

// SummaryConfig holds settings for one summary generation run.
type SummaryConfig struct {
	// Language is the target language code (EN, RU, or pass-through).
	Language string `json:"language" yaml:"language"`

	// Strategy selects the generation path: auto, single_shot, or
	// hierarchical.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// AutoThresholdChars is the serialized-input size below which auto
	// picks single-shot (default 60000).
	AutoThresholdChars int `json:"auto_threshold_chars" yaml:"auto_threshold_chars"`

	// FigureBatchSize is the number of figure captions per narrative
	// batch (default 10).
	FigureBatchSize int `json:"figure_batch_size" yaml:"figure_batch_size"`

	// CallBudget is the hard ceiling on remote calls per run, counting
	// regeneration and repair attempts (default 20). A run that crosses
	// the ceiling aborts; this is a cost circuit-breaker, not an
	// optimizer.
	CallBudget int `json:"call_budget" yaml:"call_budget"`

	// HeaderDefaults pre-fills summary header fields; missing keys fall
	// back to the source document and then to run parameters.
	HeaderDefaults map[string]string `json:"header_defaults,omitempty" yaml:"header_defaults,omitempty"`
}

// CatalogConfig holds settings for the local summary catalog.
type CatalogConfig struct {
	// CatalogDir is the directory containing the catalog database
	// (summaries.db) and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all configuration for the CLI.
type PipelineConfig struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
