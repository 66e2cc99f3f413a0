// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/pkg/types"
)

func strategyRun(llmCfg types.LLMConfig, sumCfg types.SummaryConfig) *Run {
	return NewRun(&scriptTransport{}, llmCfg, sumCfg, nil)
}

func smallDoc() *types.ArticleDocument {
	return &types.ArticleDocument{
		Title:   "Small",
		Results: []types.ResultSection{{Title: "Only", Text: "short"}},
	}
}

func TestSelectStrategyUnreliableModelAlwaysHierarchical(t *testing.T) {
	for _, configured := range []types.Strategy{
		types.StrategyAuto,
		types.StrategySingleShot,
		types.StrategyHierarchical,
	} {
		run := strategyRun(
			types.LLMConfig{Model: "m", JSONReliable: false},
			types.SummaryConfig{Strategy: configured})

		got, err := run.selectStrategy(smallDoc())
		require.NoError(t, err)
		assert.Equal(t, types.StrategyHierarchical, got, "configured %s", configured)
	}
}

func TestSelectStrategyExplicit(t *testing.T) {
	run := strategyRun(
		types.LLMConfig{Model: "m", JSONReliable: true},
		types.SummaryConfig{Strategy: types.StrategySingleShot})
	got, err := run.selectStrategy(smallDoc())
	require.NoError(t, err)
	assert.Equal(t, types.StrategySingleShot, got)

	run = strategyRun(
		types.LLMConfig{Model: "m", JSONReliable: true},
		types.SummaryConfig{Strategy: types.StrategyHierarchical})
	got, err = run.selectStrategy(smallDoc())
	require.NoError(t, err)
	assert.Equal(t, types.StrategyHierarchical, got)
}

func TestSelectStrategyAutoBySize(t *testing.T) {
	run := strategyRun(
		types.LLMConfig{Model: "m", JSONReliable: true},
		types.SummaryConfig{Strategy: types.StrategyAuto, AutoThresholdChars: 500})

	got, err := run.selectStrategy(smallDoc())
	require.NoError(t, err)
	assert.Equal(t, types.StrategySingleShot, got)

	big := smallDoc()
	big.Methods = strings.Repeat("long methods prose ", 100)
	got, err = run.selectStrategy(big)
	require.NoError(t, err)
	assert.Equal(t, types.StrategyHierarchical, got)
}

func TestSelectStrategyEmptyDefaultsToAuto(t *testing.T) {
	run := strategyRun(
		types.LLMConfig{Model: "m", JSONReliable: true},
		types.SummaryConfig{})

	got, err := run.selectStrategy(smallDoc())
	require.NoError(t, err)
	assert.Equal(t, types.StrategySingleShot, got)
}

func TestSelectStrategyUnknown(t *testing.T) {
	run := strategyRun(
		types.LLMConfig{Model: "m", JSONReliable: true},
		types.SummaryConfig{Strategy: "mystery"})

	_, err := run.selectStrategy(smallDoc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
