// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// defaultAutoThresholdChars is the serialized-article size above which
// auto strategy switches from single-shot to hierarchical.
const defaultAutoThresholdChars = 60000

// selectStrategy resolves the configured strategy to a concrete one.
// A model not declared JSON-reliable always gets hierarchical, whatever
// the configuration says; the map stage's small per-call outputs survive
// sloppy formatting far better than one large single-shot document.
func (r *Run) selectStrategy(doc *types.ArticleDocument) (types.Strategy, error) {
	if !r.llm.JSONReliable {
		return types.StrategyHierarchical, nil
	}

	switch r.cfg.Strategy {
	case types.StrategySingleShot:
		return types.StrategySingleShot, nil
	case types.StrategyHierarchical:
		return types.StrategyHierarchical, nil
	case types.StrategyAuto, "":
		threshold := r.cfg.AutoThresholdChars
		if threshold <= 0 {
			threshold = defaultAutoThresholdChars
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("sizing article: %w", err)
		}
		if len(raw) < threshold {
			return types.StrategySingleShot, nil
		}
		return types.StrategyHierarchical, nil
	}
	return "", fmt.Errorf("unknown strategy %q", r.cfg.Strategy)
}
