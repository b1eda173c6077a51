package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
)

func TestAnalysisRendererFor(t *testing.T) {
	analysis := &domain.AnalysisResult{Ticker: "NVDA", Sentiment: domain.SentimentBullish, Summary: "Breakout."}

	tests := []struct {
		format string
		want   string
	}{
		{"", "NVDA"},
		{"text", "NVDA"},
		{" JSON ", `"ticker"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			render, err := analysisRendererFor(tt.format)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, render(&buf, analysis))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	for _, bad := range []string{"yaml", "jsno", "csv"} {
		t.Run(bad, func(t *testing.T) {
			render, err := analysisRendererFor(bad)
			assert.ErrorIs(t, err, ports.ErrInvalidRequest)
			assert.Nil(t, render)
		})
	}
}
