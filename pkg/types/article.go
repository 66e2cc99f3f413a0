// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model and configuration structs
// for the summarization pipeline. See docs/ARCHITECTURE § Data Model.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResultSection is one titled subsection of an article's Results section.
// The title must round-trip through summarization unchanged.
type ResultSection struct {
	// Title is the subsection heading as produced by the parser.
	Title string `json:"title" yaml:"title"`

	// Text is the subsection prose. May be empty.
	Text string `json:"text" yaml:"text"`
}

// Figure is a single figure with its caption.
type Figure struct {
	// Number is the figure label. Parsers emit either an integer or a
	// string (e.g. "2A"), so it is kept as a flexible value.
	Number FlexString `json:"number" yaml:"number"`

	// Caption is the full figure caption.
	Caption string `json:"caption" yaml:"caption"`
}

// ArticleDocument is a structurally-parsed scientific article. It is the
// read-only input to summary generation; the engine never mutates it.
type ArticleDocument struct {
	Title        string          `json:"title" yaml:"title"`
	Year         FlexString      `json:"year" yaml:"year"`
	Introduction string          `json:"introduction" yaml:"introduction"`
	Methods      string          `json:"methods" yaml:"methods"`
	Results      []ResultSection `json:"results" yaml:"results"`
	Discussion   string          `json:"discussion" yaml:"discussion"`
	Figures      []Figure        `json:"figures" yaml:"figures"`

	// SourcePath records where the article was parsed from, for the
	// summary header. Optional.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// ResultTitles returns the ordered list of non-empty Results subsection
// titles. This list is the authority for summary shape and order.
func (a *ArticleDocument) ResultTitles() []string {
	var titles []string
	for _, r := range a.Results {
		if strings.TrimSpace(r.Title) != "" {
			titles = append(titles, r.Title)
		}
	}
	return titles
}

// FlexString is a string that also accepts a JSON number when decoding.
// Upstream parsers are inconsistent about whether year and figure numbers
// are numeric or textual.
type FlexString string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying value.
func (f FlexString) String() string { return string(f) }

// Int returns the value as an integer, or 0 if it is not numeric.
func (f FlexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}
