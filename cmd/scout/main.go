package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"swingplanner/config"
	"swingplanner/internal/adapters/gemini"
	"swingplanner/internal/adapters/logger"
	"swingplanner/internal/app"
	"swingplanner/internal/ports"
	"swingplanner/internal/report"
	"swingplanner/internal/risk"
)

func main() {
	ticker := flag.String("ticker", "", "Ticker symbol to analyze, e.g. NVDA")
	timeframe := flag.String("timeframe", "daily", "Chart timeframe the setup is planned on")
	format := flag.String("format", report.FormatText, "Output format: text or json")
	flag.Parse()

	render, err := analysisRendererFor(*format)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}
	if *ticker == "" {
		log.Fatalf("FATAL: -ticker is required")
	}

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	defer appLogger.Sync()

	// 3. Initialize Ticker Analyzer
	ctx := context.Background()
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.AnalysisModel,
		Temperature: cfg.AnalysisTemperature,
		MaxRetries:  cfg.AnalysisMaxRetries,
		Logger:      appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Gemini client: %v", err)
	}

	// 4. Run through the planner so the configured timeout applies
	planner, err := app.NewPlannerService(cfg, appLogger, risk.NewCalculator(risk.CalculatorConfig{}), nil, client)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize planner service: %v", err)
	}

	appLogger.Info(ctx, "Analyzing ticker", map[string]interface{}{"ticker": *ticker, "timeframe": *timeframe})
	result, err := planner.AnalyzeTicker(ctx, *ticker, *timeframe)
	if err != nil {
		log.Fatalf("Error analyzing %s: %v", *ticker, err)
	}

	if err := render(os.Stdout, result); err != nil {
		log.Fatalf("Error writing analysis: %v", err)
	}
}

// analysisRendererFor picks the writer for -format. Analyses have no CSV form.
func analysisRendererFor(format string) (app.AnalysisRenderer, error) {
	f, err := report.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case report.FormatJSON:
		return report.WriteAnalysisJSON, nil
	case report.FormatText:
		return report.WriteAnalysisText, nil
	default:
		return nil, fmt.Errorf("output format %q is not supported for analyses: %w", f, ports.ErrInvalidRequest)
	}
}
