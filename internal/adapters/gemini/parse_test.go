package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"swingplanner/internal/domain"
)

func TestParseAnalysis_Sentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{"bullish", "Overall the setup looks Bullish into earnings.", domain.SentimentBullish},
		{"bearish", "Sector flows remain BEARISH.", domain.SentimentBearish},
		{"bullish wins when both appear", "Short-term bearish, medium-term bullish.", domain.SentimentBullish},
		{"neutral", "Range-bound with no clear bias.", domain.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAnalysis(tt.text, nil).Sentiment)
		})
	}
}

func TestParseAnalysis_Catalysts(t *testing.T) {
	text := `Summary line.
- Q3 earnings on 10/28
  * Analyst day
1. FDA decision
12. Fed minutes
plain sentence - not a bullet
- CPI print
- Options expiry
- Beyond the limit`

	got := ParseAnalysis(text, nil)
	assert.Equal(t, []string{"Q3 earnings on 10/28", "Analyst day", "FDA decision", "Fed minutes", "CPI print"}, got.Catalysts)
	assert.Equal(t, text, got.Summary)
	assert.NotNil(t, got.NewsLinks)
}

func TestParseAnalysis_Fallbacks(t *testing.T) {
	got := ParseAnalysis("", nil)
	assert.Equal(t, "No analysis generated.", got.Summary)
	assert.Equal(t, []string{"See summary for details"}, got.Catalysts)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
	assert.NotNil(t, got.NewsLinks)

	got = ParseAnalysis("  \n ", nil)
	assert.Equal(t, "  \n ", got.Summary, "whitespace-only text is not replaced")
	assert.Equal(t, []string{"See summary for details"}, got.Catalysts)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
}

func TestGroundingLinks(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://example.com/a", Title: "Upgrade"}},
					{Web: &genai.GroundingChunkWeb{URI: "https://example.com/b"}},
					{Web: nil},
					nil,
				},
			},
		}},
	}
	links := groundingLinks(resp)
	assert.Equal(t, []domain.NewsItem{{Title: "Upgrade", URL: "https://example.com/a", Source: "Web Source"}}, links)

	assert.Empty(t, groundingLinks(nil))
	assert.Empty(t, groundingLinks(&genai.GenerateContentResponse{}))
}
