package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"google.golang.org/genai"

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.3

	systemInstruction = "You are a professional swing trader assistant. Be concise, objective, and risk-focused."
	promptTemplate    = `Analyze the ticker symbol %s for a swing trading setup on the %s timeframe.

Focus on:
1. Upcoming catalysts (earnings, fda approvals, macro events) in the next 2 weeks.
2. Recent major news headlines.
3. Overall sector sentiment.

Provide a concise summary, a sentiment rating (bullish, bearish, neutral), and a list of specific upcoming catalysts.
`
)

// generator issues one generate-content call.
type generator interface {
	generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// Client implements ports.TickerAnalyzer using the Gemini API with Google
// Search grounding.
type Client struct {
	gen        generator
	logger     ports.Logger
	maxRetries int
	retryMin   time.Duration
	retryMax   time.Duration
}

// Config holds configuration specific to the Gemini client adapter.
type Config struct {
	APIKey      string
	Model       string  // Defaults to DefaultModel
	Temperature float64 // Defaults to DefaultTemperature when zero
	MaxRetries  int     // Retries after the first attempt for transient failures
	RetryMin    time.Duration
	RetryMax    time.Duration
	Logger      ports.Logger
}

// New creates a new Gemini client adapter.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Gemini client: %w", ports.ErrConfigurationError)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", ports.ErrConfigurationError)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w: %w", ports.ErrConfigurationError, err)
	}

	cfg.Logger.Info(ctx, "Gemini client configured", map[string]interface{}{"model": cfg.Model})
	return newWithGenerator(&genaiGenerator{
		models:      gc.Models,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, cfg), nil
}

func newWithGenerator(gen generator, cfg Config) *Client {
	retryMin := cfg.RetryMin
	if retryMin <= 0 {
		retryMin = 500 * time.Millisecond
	}
	retryMax := cfg.RetryMax
	if retryMax <= 0 {
		retryMax = 8 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		gen:        gen,
		logger:     cfg.Logger,
		maxRetries: maxRetries,
		retryMin:   retryMin,
		retryMax:   retryMax,
	}
}

// AnalyzeTicker asks the model for catalysts, headlines and sentiment for the
// ticker, retrying rate limits and server errors with exponential backoff.
func (c *Client) AnalyzeTicker(ctx context.Context, ticker, timeframe string) (*domain.AnalysisResult, error) {
	const op = "AnalyzeTicker"
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%s: ticker is required: %w", op, ports.ErrInvalidRequest)
	}
	timeframe = strings.TrimSpace(timeframe)
	if timeframe == "" {
		timeframe = "daily"
	}

	prompt := fmt.Sprintf(promptTemplate, ticker, timeframe)
	b := &backoff.Backoff{Min: c.retryMin, Max: c.retryMax, Factor: 2, Jitter: true}

	for {
		resp, err := c.gen.generate(ctx, prompt)
		if err == nil {
			result := ParseAnalysis(resp.Text(), groundingLinks(resp))
			result.Ticker = ticker
			result.Timeframe = timeframe
			c.logger.Info(ctx, "Ticker analyzed", map[string]interface{}{
				"ticker":    ticker,
				"sentiment": string(result.Sentiment),
				"catalysts": len(result.Catalysts),
				"sources":   len(result.NewsLinks),
			})
			return &result, nil
		}

		mapped := c.handleError(ctx, err, op)
		if !retryable(mapped) || int(b.Attempt()) >= c.maxRetries {
			return nil, mapped
		}

		delay := b.Duration()
		c.logger.Warn(ctx, op+": transient failure, retrying", map[string]interface{}{
			"ticker":  ticker,
			"attempt": int(b.Attempt()),
			"delay":   delay.String(),
		})
		select {
		case <-ctx.Done():
			return nil, c.handleError(ctx, ctx.Err(), op)
		case <-time.After(delay):
		}
	}
}

// handleError maps genai and context errors onto the standard port errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	var mapped error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		mapped = ports.ErrTimeout
	case errors.Is(err, context.Canceled):
		mapped = ports.ErrContextCanceled
	default:
		mapped = mapStatus(apiErrorCode(err))
	}

	finalErr := fmt.Errorf("%s failed: %w: %w", operation, mapped, err)
	c.logger.Error(ctx, finalErr, "Gemini API error", map[string]interface{}{"operation": operation})
	return finalErr
}

// apiErrorCode extracts the HTTP status from a genai API error, or 0.
func apiErrorCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ports.ErrAuthenticationFailed
	case code == http.StatusTooManyRequests:
		return ports.ErrRateLimited
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ports.ErrTimeout
	case code >= 400 && code < 500:
		return ports.ErrInvalidRequest
	default:
		return ports.ErrAnalysisUnavailable
	}
}

func retryable(err error) bool {
	return errors.Is(err, ports.ErrRateLimited) ||
		errors.Is(err, ports.ErrAnalysisUnavailable) ||
		(errors.Is(err, ports.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded))
}

// genaiGenerator is the production generator backed by the genai SDK.
type genaiGenerator struct {
	models      *genai.Models
	model       string
	temperature float32
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	return g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
}
