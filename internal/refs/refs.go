// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs extracts and classifies figure-citation tokens in article
// prose ("Figure 3", "Fig. 2A–C", "Supplementary Fig. 1"). Every stage
// that must preserve citations verbatim goes through this package.
// See docs/ARCHITECTURE § Reference Extraction.
package refs

import (
	"regexp"
	"strings"
)

var (
	// figRefRe matches figure citations, optionally prefixed with
	// "Supplementary" and optionally spanning a dash range ("Figs. 2–4").
	figRefRe = regexp.MustCompile(
		`(?i)\b(?:supplementary\s+)?(?:fig(?:ure)?s?)\.?\s*(?:s\s*)?\d+[a-z]?(?:\s*[–-]\s*\d+[a-z]?)?\b`,
	)

	// suppFigRe detects S-numbered figures: "Fig. S1", "Figure S2",
	// "Figs. S3-S4", "Fig S1".
	suppFigRe = regexp.MustCompile(`(?i)\bfig(?:ure)?s?\.?\s*s\s*\d`)

	// spaceRe collapses runs of whitespace for normalized comparison.
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalize prepares a reference (or arbitrary text) for case-insensitive,
// whitespace-collapsed, dash-normalized comparison.
func Normalize(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.ReplaceAll(s, "–", "-")
	return strings.ToLower(s)
}

// IsSupplementary reports whether a reference is supplementary: it
// contains the word "supplementary" or cites an S-numbered figure.
// Supplementary references are never mandated to survive summarization.
func IsSupplementary(ref string) bool {
	r := strings.ToLower(ref)
	if strings.Contains(r, "supplementary") {
		return true
	}
	return suppFigRe.MatchString(r)
}

// Extract returns the distinct non-supplementary figure references in
// text, in first-seen order. Deduplication is by normalized form; the
// returned strings keep their original textual shape so they can be
// echoed verbatim into prompts.
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]bool)
	var found []string
	for _, ref := range figRefRe.FindAllString(text, -1) {
		ref = strings.TrimSpace(ref)
		if IsSupplementary(ref) {
			continue
		}
		n := Normalize(ref)
		if seen[n] {
			continue
		}
		seen[n] = true
		found = append(found, ref)
	}
	return found
}

// NormalizedSet returns the normalized forms of refs as a set, for
// overlap tests between caption batches and mini-summaries.
func NormalizedSet(refs []string) map[string]bool {
	set := make(map[string]bool, len(refs))
	for _, r := range refs {
		set[Normalize(r)] = true
	}
	return set
}

// ContainsAll reports whether text contains every required reference
// (compared in normalized form) and returns the ones that are missing,
// preserving their order in required.
func ContainsAll(text string, required []string) (bool, []string) {
	if len(required) == 0 {
		return true, nil
	}
	tnorm := Normalize(text)
	var missing []string
	for _, ref := range required {
		if !strings.Contains(tnorm, Normalize(ref)) {
			missing = append(missing, ref)
		}
	}
	return len(missing) == 0, missing
}
