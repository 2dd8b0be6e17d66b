package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical", a: "9876543210", b: "9876543210", want: 100},
		{name: "case_insensitive", a: "Tata Consultancy", b: "tata consultancy", want: 100},
		{name: "token_order", a: "Consultancy Tata", b: "Tata Consultancy", want: 100},
		{name: "both_empty", a: "", b: "", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
		})
	}
}

func TestRatioDisjointDigits(t *testing.T) {
	// Two unrelated ten-digit numbers must land at or below the phone
	// missing-threshold of 80.
	assert.LessOrEqual(t, Ratio("9876543210", "1234567890"), 80)
}

func TestRatioBounds(t *testing.T) {
	for _, pair := range [][2]string{
		{"", "something"},
		{"abc", "abd"},
		{"Indian Institute of Technology", "Indian Institute of Technology Bombay"},
	} {
		s := Ratio(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestExtractOne(t *testing.T) {
	index, score, ok := ExtractOne("9876543210", []string{"1234567890", "9876543210"})
	assert.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 100, score)

	_, _, ok = ExtractOne("anything", nil)
	assert.False(t, ok)
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		threshold int
		want      []string
	}{
		{
			name:      "collapses_near_identical",
			values:    []string{"9876543210", "98765432100", "1234567890"},
			threshold: 80,
			want:      []string{"9876543210", "1234567890"},
		},
		{
			name:      "keeps_distinct",
			values:    []string{"alpha", "omega"},
			threshold: 80,
			want:      []string{"alpha", "omega"},
		},
		{
			name:      "empty_input",
			values:    nil,
			threshold: 80,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.values, tt.threshold))
		})
	}
}
