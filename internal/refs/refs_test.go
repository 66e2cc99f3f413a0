// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single reference",
			text: "As shown in Figure 3, the effect is robust.",
			want: []string{"Figure 3"},
		},
		{
			name: "abbreviated and ranged",
			text: "Fig. 2A–C shows the lesion sites; Fig. 5 quantifies them.",
			want: []string{"Fig. 2A", "Fig. 5"},
		},
		{
			name: "dedup is case and whitespace insensitive",
			text: "Figure 1 ... later FIGURE  1 again ... figure 1.",
			want: []string{"Figure 1"},
		},
		{
			name: "dedup normalizes dashes",
			text: "Figs. 3–4 and again Figs. 3-4.",
			want: []string{"Figs. 3–4"},
		},
		{
			name: "supplementary references excluded",
			text: "See Supplementary Figure 2 and Fig. S1 for controls; Figure 4 shows the main result.",
			want: []string{"Figure 4"},
		},
		{
			name: "no figure tokens",
			text: "This paragraph discusses prior work only.",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

// Extraction is idempotent: extracting from the joined extraction output
// yields the same set, and unrelated surrounding text does not change it.
func TestExtractIdempotent(t *testing.T) {
	text := "Figure 1 shows A. Fig. 2 shows B. Figure 1 is repeated."
	first := Extract(text)

	joined := ""
	for _, r := range first {
		joined += r + " and some filler prose; "
	}
	second := Extract(joined)

	assert.Equal(t, first, second)

	reordered := "Unrelated intro. Figure 1 shows A. More filler. Fig. 2 shows B."
	assert.Equal(t, first, Extract(reordered))
}

func TestIsSupplementary(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"Supplementary Figure 2", true},
		{"supplementary fig. 3", true},
		{"Fig. S1", true},
		{"Figure S2", true},
		{"Figs. S3-S4", true},
		{"Fig S1", true},
		{"Figure 3", false},
		{"Fig. 2A", false},
		{"Figs. 1-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupplementary(tt.ref))
		})
	}
}

func TestContainsAll(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		required    []string
		wantOK      bool
		wantMissing []string
	}{
		{
			name:     "no requirements",
			text:     "anything",
			required: nil,
			wantOK:   true,
		},
		{
			name:     "all present despite formatting differences",
			text:     "The data (FIGURE  3) and Fig. 4 agree.",
			required: []string{"Figure 3", "Fig. 4"},
			wantOK:   true,
		},
		{
			name:        "one missing, order preserved",
			text:        "Only Figure 3 appears here.",
			required:    []string{"Figure 3", "Fig. 4", "Figure 5"},
			wantOK:      false,
			wantMissing: []string{"Fig. 4", "Figure 5"},
		},
		{
			name:        "empty text misses everything",
			text:        "",
			required:    []string{"Figure 1"},
			wantOK:      false,
			wantMissing: []string{"Figure 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, missing := ContainsAll(tt.text, tt.required)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "fig. 2a-c", Normalize("  Fig.  2A–C "))
	assert.Equal(t, "figure 3", Normalize("Figure\t3"))
}

func TestNormalizedSet(t *testing.T) {
	set := NormalizedSet([]string{"Figure 1", "FIG. 2"})
	assert.True(t, set["figure 1"])
	assert.True(t, set["fig. 2"])
	assert.False(t, set["figure 2"])
}
