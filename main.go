package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"swingplanner/config"
	"swingplanner/internal/adapters/gemini"
	"swingplanner/internal/adapters/logger"
	"swingplanner/internal/adapters/sqlite"
	"swingplanner/internal/app"
	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
	"swingplanner/internal/report"
	"swingplanner/internal/risk"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	account := flag.Float64("account", cfg.AccountSize, "Account size")
	riskPct := flag.Float64("risk", cfg.RiskPercentage, "Percent of the account to risk")
	entry := flag.Float64("entry", 0, "Entry price")
	stop := flag.Float64("stop", 0, "Stop-loss price")
	symbol := flag.String("symbol", "", "Ticker the plan is for (optional)")
	targetSpec := flag.String("targets", "", `Profit targets as price:percent pairs, e.g. "160:50,170:50"`)
	format := flag.String("format", report.FormatText, "Output format: text, json or csv")
	outFile := flag.String("out", "", "Write the report to this file instead of stdout")
	load := flag.String("load", "", "Start from a saved worksheet")
	save := flag.String("save", "", "Save the resulting worksheet under this name")
	interactive := flag.Bool("interactive", false, "Run an interactive session")
	flag.Parse()

	outFormat, err := report.ParseFormat(*format)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 2. Initialize Logger (stderr keeps stdout for the report)
	appLogger := logger.NewZapLogger(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	defer appLogger.Sync()
	appLogger.Debug(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 3. Initialize Repository (Database Adapter) when worksheets are used
	var repo ports.WorksheetRepository
	if *interactive || *load != "" || *save != "" {
		sqliteRepo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
		}
		defer func() {
			if err := sqliteRepo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing database repository")
			}
		}()
		repo = sqliteRepo
	}

	// 4. Initialize Ticker Analyzer (optional)
	var analyzer ports.TickerAnalyzer
	if cfg.AnalysisEnabled() {
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.AnalysisModel,
			Temperature: cfg.AnalysisTemperature,
			MaxRetries:  cfg.AnalysisMaxRetries,
			Logger:      appLogger,
		})
		if err != nil {
			appLogger.Warn(ctx, "Ticker analysis disabled", map[string]interface{}{"error": err.Error()})
		} else {
			analyzer = client
		}
	}

	// 5. Initialize Application Service
	calc := risk.NewCalculator(risk.CalculatorConfig{ScenarioPercentages: cfg.ScenarioPercentages})
	planner, err := app.NewPlannerService(cfg, appLogger, calc, repo, analyzer)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize planner service: %v", err)
	}

	if *load != "" {
		if _, err := planner.LoadWorksheet(ctx, *load); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}
	inputs := []flagInput{
		{"account", domain.FieldAccountSize, *account},
		{"risk", domain.FieldRiskPercentage, *riskPct},
		{"entry", domain.FieldEntryPrice, *entry},
		{"stop", domain.FieldStopLossPrice, *stop},
	}
	if err := applyFlags(ctx, planner, inputs, *load != ""); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if *symbol != "" {
		planner.SetSymbol(*symbol)
	}
	if *targetSpec != "" {
		targets, err := app.ParseTargets(*targetSpec)
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		planner.ReplaceTargets(ctx, targets)
	}

	// 6. Run
	if *interactive {
		sess := app.NewSession(planner, os.Stdout, rendererFor(outFormat), analysisRendererFor(outFormat))
		fmt.Fprintln(os.Stdout, "Type help for commands.")
		if err := sess.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
			log.Fatalf("FATAL: session ended with error: %v", err)
		}
		return
	}

	if *save != "" {
		if _, err := planner.SaveWorksheet(ctx, *save); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("FATAL: failed to create %s: %v", *outFile, err)
		}
		defer f.Close()
		out = f
	}
	if err := rendererFor(outFormat)(out, planner.Symbol(), planner.Plan()); err != nil {
		log.Fatalf("FATAL: failed to write report: %v", err)
	}
}

type flagInput struct {
	name  string
	field domain.InputField
	value float64
}

// applyFlags copies input flags onto the planner. After a worksheet load only
// flags given explicitly on the command line override it.
func applyFlags(ctx context.Context, planner *app.PlannerService, inputs []flagInput, loaded bool) error {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for _, in := range inputs {
		if loaded && !set[in.name] {
			continue
		}
		if _, err := planner.UpdateInput(ctx, in.field, in.value); err != nil {
			return err
		}
	}
	return nil
}

func rendererFor(format string) app.Renderer {
	switch format {
	case report.FormatJSON:
		return report.WriteJSON
	case report.FormatCSV:
		return func(w io.Writer, _ string, plan domain.Plan) error { return report.WriteCSV(w, plan) }
	default:
		return report.WriteText
	}
}

func analysisRendererFor(format string) app.AnalysisRenderer {
	if format == report.FormatJSON {
		return report.WriteAnalysisJSON
	}
	return report.WriteAnalysisText
}
