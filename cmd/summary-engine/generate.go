// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/internal/catalog"
	"github.com/pdiddy/summary-engine/internal/llm"
	"github.com/pdiddy/summary-engine/internal/summarize"
	"github.com/pdiddy/summary-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [article.json]",
	Short: "Generate a structured summary for a parsed article",
	Long: `Generate reads a structurally-parsed article (JSON) and produces a
structured summary through a remote language model. Small articles on a
JSON-reliable model go out as a single request; everything else runs the
hierarchical pipeline: one call per Results subsection, batched figure
narration, then a final merge.

The summary is written to stdout or --output as JSON or YAML, and saved
to the local catalog unless --no-save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	doc, err := readArticle(args[0])
	if err != nil {
		return err
	}

	llmCfg, err := llmConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	sumCfg := summaryConfigFromFlags(cmd)

	transport, err := llm.NewTransport(llmCfg)
	if err != nil {
		return err
	}

	run := summarize.NewRun(transport, llmCfg, sumCfg, os.Stderr)
	sum, err := run.Generate(context.Background(), doc)
	if err != nil {
		return err
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, err := catalog.NewStore(catalogConfigFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer store.Close()
		id, err := store.Save(context.Background(), sum)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to catalog as %s\n", id)
	}

	return writeSummary(cmd, sum)
}

func readArticle(path string) (*types.ArticleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading article: %w", err)
	}
	var doc types.ArticleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing article %s: %w", path, err)
	}
	if doc.SourcePath == "" {
		doc.SourcePath = path
	}
	return &doc, nil
}

func llmConfigFromFlags(cmd *cobra.Command) (types.LLMConfig, error) {
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = viper.GetString("llm.provider")
	}
	if provider == "" {
		provider = string(types.ProviderOpenAI)
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("llm.model")
	}
	if model == "" {
		return types.LLMConfig{}, fmt.Errorf("model required: pass --model or set llm.model in config")
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("llm.api_key")
	}
	apiKey = secretDefault(provider+"-api-key", apiKey)
	if apiKey == "" {
		return types.LLMConfig{}, fmt.Errorf("API key required: pass --api-key, set llm.api_key, or add .secrets/%s-api-key", provider)
	}

	jsonReliable, _ := cmd.Flags().GetBool("json-reliable")
	if !cmd.Flags().Changed("json-reliable") {
		jsonReliable = viper.GetBool("llm.json_reliable")
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("llm.base_url")
	}

	return types.LLMConfig{
		Provider:     types.LLMProvider(provider),
		Model:        model,
		APIKey:       apiKey,
		BaseURL:      baseURL,
		JSONReliable: jsonReliable,
		MaxRetries:   viper.GetInt("llm.max_retries"),
	}, nil
}

func summaryConfigFromFlags(cmd *cobra.Command) types.SummaryConfig {
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = viper.GetString("summary.language")
	}
	if language == "" {
		language = "EN"
	}

	strategy, _ := cmd.Flags().GetString("strategy")
	if strategy == "" {
		strategy = viper.GetString("summary.strategy")
	}
	if strategy == "" {
		strategy = string(types.StrategyAuto)
	}

	budget, _ := cmd.Flags().GetInt("call-budget")
	if budget == 0 {
		budget = viper.GetInt("summary.call_budget")
	}

	batchSize, _ := cmd.Flags().GetInt("figure-batch")
	if batchSize == 0 {
		batchSize = viper.GetInt("summary.figure_batch_size")
	}

	return types.SummaryConfig{
		Language:           language,
		Strategy:           types.Strategy(strategy),
		AutoThresholdChars: viper.GetInt("summary.auto_threshold_chars"),
		FigureBatchSize:    batchSize,
		CallBudget:         budget,
		HeaderDefaults:     viper.GetStringMapString("summary.header_defaults"),
	}
}

func catalogConfigFromFlags(cmd *cobra.Command) types.CatalogConfig {
	dir, _ := cmd.Flags().GetString("catalog-dir")
	if dir == "" {
		dir = viper.GetString("catalog.catalog_dir")
	}
	if dir == "" {
		dir = "catalog"
	}
	return types.CatalogConfig{
		CatalogDir: dir,
		MaxResults: viper.GetInt("catalog.max_results"),
	}
}

func writeSummary(cmd *cobra.Command, sum *types.SummaryDocument) error {
	format, _ := cmd.Flags().GetString("format")

	var data []byte
	var err error
	switch format {
	case "json", "":
		data, err = json.MarshalIndent(sum, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(sum)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if err != nil {
		return fmt.Errorf("serializing summary: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Summary written to %s\n", output)
	return nil
}

func init() {
	generateCmd.Flags().String("provider", "", "LLM provider: openai or anthropic")
	generateCmd.Flags().String("model", "", "model identifier")
	generateCmd.Flags().String("api-key", "", "API key (falls back to config, then .secrets/)")
	generateCmd.Flags().String("base-url", "", "override the provider endpoint")
	generateCmd.Flags().Bool("json-reliable", false, "declare the model reliable for strict JSON output")
	generateCmd.Flags().String("language", "", "target language code (EN, RU)")
	generateCmd.Flags().String("strategy", "", "generation strategy: auto, single_shot, or hierarchical")
	generateCmd.Flags().Int("call-budget", 0, "hard ceiling on remote calls (0 = default)")
	generateCmd.Flags().Int("figure-batch", 0, "figure captions per narrative batch (0 = default)")
	generateCmd.Flags().String("format", "json", "output format: json or yaml")
	generateCmd.Flags().String("output", "", "write the summary to a file instead of stdout")
	generateCmd.Flags().Bool("no-save", false, "do not save the summary to the catalog")
	generateCmd.Flags().String("catalog-dir", "", "catalog directory (default: ./catalog)")

	rootCmd.AddCommand(generateCmd)
}
