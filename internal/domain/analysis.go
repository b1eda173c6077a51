package domain

// Sentiment is the coarse market sentiment extracted from an analysis text.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// NewsItem is a source link attached to a ticker analysis.
type NewsItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// AnalysisResult is the outcome of a ticker lookup.
type AnalysisResult struct {
	Ticker    string     `json:"ticker"`
	Timeframe string     `json:"timeframe"`
	Summary   string     `json:"summary"`
	Sentiment Sentiment  `json:"sentiment"`
	Catalysts []string   `json:"catalysts"`
	NewsLinks []NewsItem `json:"newsLinks"`
}
