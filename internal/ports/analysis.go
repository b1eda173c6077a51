package ports

import (
	"context"

	"swingplanner/internal/domain"
)

// TickerAnalyzer looks up sentiment, catalysts and news for a ticker symbol.
// It is independent of the position calculator and may be slow or fail.
type TickerAnalyzer interface {
	AnalyzeTicker(ctx context.Context, ticker, timeframe string) (*domain.AnalysisResult, error)
}
