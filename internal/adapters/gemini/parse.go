package gemini

import (
	"regexp"
	"strings"

	"google.golang.org/genai"

	"swingplanner/internal/domain"
)

const (
	maxCatalysts      = 5
	noAnalysisText    = "No analysis generated."
	catalystFallback  = "See summary for details"
	groundedSourceTag = "Web Source"
)

var (
	numberedItem = regexp.MustCompile(`^\d+\.`)
	itemMarker   = regexp.MustCompile(`^[-*]\s*|^\d+\.\s*`)
)

// ParseAnalysis turns free-form model output into an AnalysisResult.
//
// Sentiment is "bullish" if the text mentions bullish at all, otherwise
// "bearish" if it mentions bearish, otherwise "neutral". Catalysts are the
// first bullet or numbered lines with their markers stripped. Only an empty
// text gets the placeholder summary; whitespace is kept as the model sent it.
func ParseAnalysis(text string, links []domain.NewsItem) domain.AnalysisResult {
	if text == "" {
		text = noAnalysisText
	}
	if links == nil {
		links = []domain.NewsItem{}
	}
	return domain.AnalysisResult{
		Summary:   text,
		Sentiment: detectSentiment(text),
		Catalysts: extractCatalysts(text),
		NewsLinks: links,
	}
}

func detectSentiment(text string) domain.Sentiment {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "bullish"):
		return domain.SentimentBullish
	case strings.Contains(lower, "bearish"):
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

func extractCatalysts(text string) []string {
	catalysts := make([]string, 0, maxCatalysts)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") && !numberedItem.MatchString(trimmed) {
			continue
		}
		catalysts = append(catalysts, strings.TrimSpace(itemMarker.ReplaceAllString(trimmed, "")))
		if len(catalysts) == maxCatalysts {
			break
		}
	}
	if len(catalysts) == 0 {
		return []string{catalystFallback}
	}
	return catalysts
}

// groundingLinks collects the web sources the search tool grounded the answer on.
// Chunks missing either a URI or a title are skipped.
func groundingLinks(resp *genai.GenerateContentResponse) []domain.NewsItem {
	links := []domain.NewsItem{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return links
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return links
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		links = append(links, domain.NewsItem{
			Title:  chunk.Web.Title,
			URL:    chunk.Web.URI,
			Source: groundedSourceTag,
		})
	}
	return links
}
